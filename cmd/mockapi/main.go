// mockapi is a stand-in for the real commerce API so the BFF can run
// locally: any credentials log in, and a fixed demo catalog backs the
// product endpoints.
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type mockProduct struct {
	Codigo      string  `json:"Codigo"`
	Descripcion string  `json:"Descripcion"`
	Rubro       string  `json:"Rubro"`
	Marca       string  `json:"Marca"`
	Precio      float64 `json:"Precio"`
	Stock       int     `json:"Stock"`
	Disponible  bool    `json:"Disponible"`
	Oferta      bool    `json:"Oferta"`
}

var catalog = []mockProduct{
	{Codigo: "P-00001", Descripcion: "ACME TORNILLERÍA 250", Rubro: "FERRETERÍA", Marca: "ACME", Precio: 1250.50, Stock: 40, Disponible: true},
	{Codigo: "P-00002", Descripcion: "BOSCH FRENOS 110", Rubro: "AUTOPARTES", Marca: "BOSCH", Precio: 18990, Stock: 12, Disponible: true, Oferta: true},
	{Codigo: "P-00003", Descripcion: "STANLEY MANUALES 55", Rubro: "HERRAMIENTAS", Marca: "STANLEY", Precio: 7400.25, Stock: 8, Disponible: true},
	{Codigo: "P-00004", Descripcion: "PHILIPS ILUMINACIÓN 730", Rubro: "ELECTRICIDAD", Marca: "PHILIPS", Precio: 3300, Stock: 0, Disponible: false},
	{Codigo: "P-00005", Descripcion: "3M ADHESIVOS 42", Rubro: "FERRETERÍA", Marca: "3M", Precio: 980.75, Stock: 150, Disponible: true, Oferta: true},
}

func main() {
	logger := log.New(os.Stdout, "[mockapi] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	addr := os.Getenv("MOCKAPI_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	router.POST("/Usuarios/Login", loginHandler)
	router.POST("/Usuarios/ObtenerCliente", requireBearer, clienteHandler)
	router.POST("/Productos/ObtenerProductos", requireBearer, productosHandler)
	router.GET("/Productos/ObtenerListasFiltros", requireBearer, filtrosHandler)
	router.GET("/Productos/ObtenerBannerInfo", requireBearer, bannerHandler)
	router.GET("/sistema/pedidos", requireBearer, pedidosHandler)

	logger.Printf("mock commerce api on %s", addr)
	if err := router.Run(addr); err != nil {
		logger.Fatalf("serve: %v", err)
	}
}

func loginHandler(c *gin.Context) {
	var req struct {
		UserName string `json:"userName"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.UserName == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "credenciales incompletas"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"Token":      uuid.NewString(),
		"RolUsuario": "1",
		"IdUsuario":  req.UserName,
	})
}

func requireBearer(c *gin.Context) {
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "token faltante"})
		return
	}
	c.Next()
}

func clienteHandler(c *gin.Context) {
	var req struct {
		IdUsuario string `json:"IdUsuario"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.IdUsuario == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "IdUsuario es requerido"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"NombreUsuario": req.IdUsuario,
		"Saldo":         125000.50,
	})
}

func productosHandler(c *gin.Context) {
	var req struct {
		TextoBuscador  string `json:"TextoBuscador"`
		SoloDisponible bool   `json:"SoloDisponible"`
		SoloOfertas    bool   `json:"SoloOfertas"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "cuerpo inválido"})
		return
	}

	q := strings.ToLower(strings.TrimSpace(req.TextoBuscador))
	filtered := make([]mockProduct, 0, len(catalog))
	for _, p := range catalog {
		if q != "" && !strings.Contains(strings.ToLower(p.Descripcion), q) && !strings.Contains(strings.ToLower(p.Codigo), q) {
			continue
		}
		if req.SoloDisponible && !p.Disponible {
			continue
		}
		if req.SoloOfertas && !p.Oferta {
			continue
		}
		filtered = append(filtered, p)
	}

	c.JSON(http.StatusOK, gin.H{
		"Paginacion": gin.H{"PageNumber": 1, "PageSize": len(filtered), "Total": len(filtered)},
		"Productos":  filtered,
	})
}

func bannerHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"Imagenes": []gin.H{
			{"Url": "/banners/ofertas-semana.jpg", "Titulo": "Ofertas de la semana"},
			{"Url": "/banners/envio-gratis.jpg", "Titulo": "Envío gratis desde $50.000"},
		},
	})
}

var estadosPedido = []string{"Pendiente", "Preparación", "Enviado", "Entregado"}

// pedidosHandler generates a stable order history per dni, so repeated calls
// for the same customer return the same data.
func pedidosHandler(c *gin.Context) {
	dni := c.Query("dni")
	seed := 123456
	if digits := strings.Map(keepDigit, dni); digits != "" {
		if len(digits) > 6 {
			digits = digits[len(digits)-6:]
		}
		if n, err := strconv.Atoi(digits); err == nil {
			seed = n
		}
	}

	hoy := time.Now().UTC()
	pedidos := make([]gin.H, 0, 10)
	for i := 0; i < 10; i++ {
		id := seed*100 + i + 1
		fecha := hoy.AddDate(0, 0, -(i*2 + seed%7))
		total := float64(1500+(seed+i*377)%9000) + float64(i)*33.33
		pedidos = append(pedidos, gin.H{
			"Id":     id,
			"Dni":    dni,
			"Fecha":  fecha.Format(time.RFC3339),
			"Total":  total,
			"Estado": estadosPedido[i%len(estadosPedido)],
			"Items": []gin.H{
				{"sku": fmt.Sprintf("SKU-%d-A", id), "nombre": "Producto A", "qty": 1, "precio": 999.9},
				{"sku": fmt.Sprintf("SKU-%d-B", id), "nombre": "Producto B", "qty": 2, "precio": 499.5},
			},
		})
	}
	c.JSON(http.StatusOK, pedidos)
}

func keepDigit(r rune) rune {
	if r >= '0' && r <= '9' {
		return r
	}
	return -1
}

func filtrosHandler(c *gin.Context) {
	rubros := []gin.H{}
	seen := map[string]bool{}
	for _, p := range catalog {
		if !seen[p.Rubro] {
			seen[p.Rubro] = true
			rubros = append(rubros, gin.H{"Descripcion": p.Rubro})
		}
	}
	c.JSON(http.StatusOK, gin.H{"Rubros": rubros})
}
