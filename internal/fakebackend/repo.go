package fakebackend

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrUserExists      = errors.New("user already exists")
	ErrBadCredentials  = errors.New("invalid credentials")
	ErrProductNotFound = errors.New("product not found")
)

type repo struct {
	DB *gorm.DB
}

func (r *repo) createUser(ctx context.Context, u *User) error {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&User{}).Where("username = ?", u.Username).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrUserExists
	}
	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *repo) findUser(ctx context.Context, username string) (*User, error) {
	var u User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	return &u, nil
}

// products filters by country first, then by type, like the real backend.
func (r *repo) products(ctx context.Context, country, productType string) ([]Product, error) {
	q := r.DB.WithContext(ctx).Order("id")
	switch {
	case country != "":
		q = q.Where("pais_origen = ?", country)
	case productType != "":
		q = q.Where("tipo = ?", productType)
	}
	var out []Product
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// addToCart merges into an existing line for the same product.
func (r *repo) addToCart(ctx context.Context, username string, productID uint, qty int) (*CartEntry, error) {
	var entry CartEntry
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&Product{}).Where("id = ?", productID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrProductNotFound
		}

		res := tx.Model(&CartEntry{}).
			Where("username = ? AND producto_id = ?", username, productID).
			Update("cantidad", gorm.Expr("cantidad + ?", qty))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return tx.Where("username = ? AND producto_id = ?", username, productID).First(&entry).Error
		}

		entry = CartEntry{Username: username, ProductoID: productID, Cantidad: qty}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, fmt.Errorf("add to cart: %w", err)
	}
	return &entry, nil
}

func (r *repo) cart(ctx context.Context, username string) ([]CartEntry, error) {
	out := []CartEntry{}
	if err := r.DB.WithContext(ctx).Where("username = ?", username).Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repo) deleteLine(ctx context.Context, username string, id uint) error {
	return r.DB.WithContext(ctx).Where("id = ? AND username = ?", id, username).Delete(&CartEntry{}).Error
}
