package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mayorista-bff/internal/upstream"
)

// productosHandler relays a catalog page from the upstream API and, as a
// side effect, reconciles the session's cart against the fresh stock and
// price figures. Lines for products outside this page are left alone.
func productosHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessionFrom(c)
		q := upstream.ProductQuery{
			Text:          c.Query("texto"),
			OnlyAvailable: c.Query("disponible") == "true",
			OnlyOffers:    c.Query("ofertas") == "true",
			PageNumber:    queryInt(c, "pageNumber", 1),
			PageSize:      queryInt(c, "pageSize", 50),
		}

		page, err := deps.Upstream.Products(c.Request.Context(), sess.AccessToken, sess.UserID, q)
		if err != nil {
			upstreamError(c, err)
			return
		}

		deps.Carts.ForOwner(cartOwner(c)).SyncFromProducts(page.Products)

		c.Data(http.StatusOK, "application/json", page.Raw)
	}
}

func filterListsHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessionFrom(c)
		raw, err := deps.Upstream.FilterLists(c.Request.Context(), sess.AccessToken)
		if err != nil {
			upstreamError(c, err)
			return
		}
		c.Data(http.StatusOK, "application/json", raw)
	}
}

func bannerHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessionFrom(c)
		raw, err := deps.Upstream.BannerInfo(c.Request.Context(), sess.AccessToken)
		if err != nil {
			upstreamError(c, err)
			return
		}
		c.Data(http.StatusOK, "application/json", raw)
	}
}

// pedidosHandler relays the order history. The dni defaults to the session's
// user id; a seller session can ask for a specific customer.
func pedidosHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessionFrom(c)
		dni := c.Query("dni")
		if dni == "" {
			dni = sess.UserID
		}
		raw, err := deps.Upstream.Pedidos(c.Request.Context(), sess.AccessToken, dni)
		if err != nil {
			upstreamError(c, err)
			return
		}
		c.Data(http.StatusOK, "application/json", raw)
	}
}

// userHandler reports the logged-in user plus, for customer accounts, the
// account record (balance) fetched upstream.
func userHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessionFrom(c)
		payload := gin.H{
			"rolUsuario": sess.Role,
			"idUsuario":  sess.UserID,
			"expiresAt":  sess.ExpiresAt,
			"cliente":    nil,
		}

		// Role 1 is a customer account; anything else has no balance.
		if sess.Role == "1" && sess.UserID != "" {
			raw, err := deps.Upstream.Customer(c.Request.Context(), sess.AccessToken, sess.UserID)
			if err == nil {
				var cliente struct {
					NombreUsuario string  `json:"NombreUsuario"`
					Saldo         float64 `json:"Saldo"`
				}
				if jsonErr := json.Unmarshal(raw, &cliente); jsonErr == nil {
					payload["cliente"] = gin.H{
						"nombreUsuario": cliente.NombreUsuario,
						"saldo":         cliente.Saldo,
					}
				}
			}
		}

		c.JSON(http.StatusOK, payload)
	}
}

func queryInt(c *gin.Context, name string, def int) int {
	v := c.Query(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func upstreamError(c *gin.Context, err error) {
	var statusErr *upstream.StatusError
	if errors.As(err, &statusErr) {
		relayUpstream(c, statusErr)
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"message": "la API no respondió"})
}
