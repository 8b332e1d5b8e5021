package fakebackend

type Product struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Nombre     string `gorm:"not null" json:"nombre"`
	Tipo       string `gorm:"index" json:"tipo"`
	PaisOrigen string `gorm:"column:pais_origen;index" json:"paisOrigen"`
	Precio     int    `json:"precio"`
	Stock      int    `json:"stock"`
}

func (Product) TableName() string { return "productos" }

type User struct {
	ID       uint   `gorm:"primaryKey"`
	Username string `gorm:"uniqueIndex;not null"`
	Password string `gorm:"not null"`
	Rol      string `gorm:"not null;default:USUARIO"`
	Enabled  bool   `gorm:"not null;default:true"`
}

func (User) TableName() string { return "usuarios" }

type CartEntry struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Username   string `gorm:"uniqueIndex:idx_user_product;not null" json:"username"`
	ProductoID uint   `gorm:"column:producto_id;uniqueIndex:idx_user_product;not null" json:"productoId"`
	Cantidad   int    `gorm:"not null" json:"cantidad"`
}

func (CartEntry) TableName() string { return "carrito" }

// DefaultProducts is the seed catalog.
func DefaultProducts() []Product {
	return []Product{
		{Nombre: "Jet Chocolatina", Tipo: "Chocolates", PaisOrigen: "Colombia", Precio: 1500, Stock: 120},
		{Nombre: "Chocoramo", Tipo: "Galletas", PaisOrigen: "Colombia", Precio: 2500, Stock: 80},
		{Nombre: "Trululu Gomas", Tipo: "Gomitas", PaisOrigen: "Colombia", Precio: 3000, Stock: 60},
		{Nombre: "Bon Bon Bum", Tipo: "Caramelos", PaisOrigen: "Colombia", Precio: 500, Stock: 300},
		{Nombre: "Kinder Bueno", Tipo: "Chocolates", PaisOrigen: "Italia", Precio: 6500, Stock: 40},
		{Nombre: "Haribo Goldbears", Tipo: "Gomitas", PaisOrigen: "Alemania", Precio: 9000, Stock: 35},
		{Nombre: "Toblerone", Tipo: "Chocolates", PaisOrigen: "Suiza", Precio: 18000, Stock: 20},
		{Nombre: "Postobón Manzana", Tipo: "Bebidas", PaisOrigen: "Colombia", Precio: 3500, Stock: 90},
	}
}
