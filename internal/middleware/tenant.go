package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/multiclinicas/clinic-api/internal/service/clinic"
)

const (
	HeaderClinicID  = "X-Clinic-ID"
	ContextClinicID = "clinic_id"
)

// TenantMiddleware resolves the active clinic once per request, either from
// the X-Clinic-ID header or from the clinic_id claim of a bearer token, and
// verifies that the clinic exists. Handlers read the resolved id from the
// context and pass it to services as an explicit argument; nothing below the
// transport layer touches this middleware.
type TenantMiddleware struct {
	clinics   clinic.ClinicServicer
	jwtSecret []byte
}

func NewTenantMiddleware(clinics clinic.ClinicServicer, jwtSecret string) *TenantMiddleware {
	return &TenantMiddleware{
		clinics:   clinics,
		jwtSecret: []byte(jwtSecret),
	}
}

func (m *TenantMiddleware) Resolve() gin.HandlerFunc {
	return func(c *gin.Context) {
		clinicID, err := m.resolveClinicID(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":   "Bad Request",
				"message": err.Error(),
			})
			return
		}

		exists, err := m.clinics.Exists(c.Request.Context(), clinicID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":   "Internal Server Error",
				"message": "failed to resolve clinic",
			})
			return
		}
		if !exists {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":   "Resource Not Found",
				"message": "clinic not found",
			})
			return
		}

		c.Set(ContextClinicID, clinicID)
		c.Next()
	}
}

func (m *TenantMiddleware) resolveClinicID(c *gin.Context) (uuid.UUID, error) {
	if header := c.GetHeader(HeaderClinicID); header != "" {
		clinicID, err := uuid.Parse(header)
		if err != nil {
			return uuid.Nil, fmt.Errorf("invalid %s header", HeaderClinicID)
		}
		return clinicID, nil
	}

	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return m.clinicIDFromToken(strings.TrimPrefix(auth, "Bearer "))
	}

	return uuid.Nil, fmt.Errorf("required header '%s' is missing", HeaderClinicID)
}

func (m *TenantMiddleware) clinicIDFromToken(token string) (uuid.UUID, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.jwtSecret, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid bearer token")
	}

	raw, ok := claims[ContextClinicID].(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("bearer token has no clinic_id claim")
	}
	clinicID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("bearer token has an invalid clinic_id claim")
	}
	return clinicID, nil
}

// ClinicID returns the clinic id resolved for this request.
func ClinicID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(ContextClinicID); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}
