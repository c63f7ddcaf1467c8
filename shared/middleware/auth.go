package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cognitoidentityprovider"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pavitra93/salon-platform-analytics/shared/models"
	"github.com/pavitra93/salon-platform-analytics/shared/utils"
)

const claimsCacheTTL = time.Hour

// ClaimsCache stores parsed token claims keyed by token hash
type ClaimsCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, expiration time.Duration) error
}

// RoleResolver looks up the custom attributes missing from an access token
type RoleResolver interface {
	ResolveAttributes(ctx context.Context, sub string) (tenantID, role string, err error)
}

// CognitoClaims represents Cognito JWT claims
type CognitoClaims struct {
	Sub            string `json:"sub"`
	Email          string `json:"email"`
	TokenUse       string `json:"token_use"`
	CustomTenantID string `json:"custom:tenant_id"`
	CustomRole     string `json:"custom:role"`
}

// AuthMiddleware extracts the caller identity from a Cognito token
type AuthMiddleware struct {
	cache    ClaimsCache
	resolver RoleResolver
	logger   *logrus.Logger
}

// NewAuthMiddleware creates the middleware. cache and resolver may be nil.
func NewAuthMiddleware(cache ClaimsCache, resolver RoleResolver, logger *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		cache:    cache,
		resolver: resolver,
		logger:   logger,
	}
}

// RequireAuth parses the bearer token and stores the caller in the gin context.
// Signature verification happens at the gateway's identity provider edge.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			utils.UnauthorizedResponse(c, "Authorization token required")
			return
		}

		claims, err := am.parseClaims(c.Request.Context(), tokenString)
		if err != nil {
			am.logger.WithError(err).Warn("Rejected analytics token")
			utils.UnauthorizedResponse(c, "Invalid token")
			return
		}

		c.Set("user_id", claims.Sub)
		c.Set("email", claims.Email)
		c.Set("tenant_id", claims.CustomTenantID)
		c.Set("role", claims.CustomRole)

		c.Next()
	}
}

// RequireRole rejects callers whose role differs from requiredRole
func (am *AuthMiddleware) RequireRole(requiredRole models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			utils.UnauthorizedResponse(c, "User role not found in context")
			return
		}

		if role != string(requiredRole) {
			utils.ForbiddenResponse(c, "Insufficient permissions")
			return
		}

		c.Next()
	}
}

func (am *AuthMiddleware) parseClaims(ctx context.Context, tokenString string) (*CognitoClaims, error) {
	cacheKey := getCacheKey(tokenString)
	if am.cache != nil {
		if cachedData, err := am.cache.Get(ctx, cacheKey); err == nil {
			var claims CognitoClaims
			if err := json.Unmarshal([]byte(cachedData), &claims); err == nil {
				return &claims, nil
			}
		}
	}

	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims format")
	}

	claims := &CognitoClaims{
		Sub:            getClaimString(mapClaims, "sub"),
		Email:          getClaimString(mapClaims, "email"),
		TokenUse:       getClaimString(mapClaims, "token_use"),
		CustomTenantID: getClaimString(mapClaims, "custom:tenant_id"),
		CustomRole:     getClaimString(mapClaims, "custom:role"),
	}
	if claims.Sub == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	if claims.TokenUse != "" && claims.TokenUse != "access" && claims.TokenUse != "id" {
		return nil, fmt.Errorf("invalid token use: %q", claims.TokenUse)
	}

	// Access tokens carry no custom attributes
	if claims.CustomRole == "" && am.resolver != nil {
		tenantID, role, err := am.resolver.ResolveAttributes(ctx, claims.Sub)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve user attributes: %w", err)
		}
		claims.CustomRole = role
		if claims.CustomTenantID == "" {
			claims.CustomTenantID = tenantID
		}
	}
	if claims.CustomRole == "" {
		claims.CustomRole = string(models.RoleUser)
	}

	if am.cache != nil {
		if cacheData, err := json.Marshal(claims); err == nil {
			_ = am.cache.Set(ctx, cacheKey, string(cacheData), claimsCacheTTL)
		}
	}

	return claims, nil
}

// getCacheKey generates a cache key for the token
func getCacheKey(tokenString string) string {
	hash := sha256.Sum256([]byte(tokenString))
	return "token:" + hex.EncodeToString(hash[:])
}

// extractToken extracts the JWT token from the Authorization header
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	return strings.TrimPrefix(authHeader, "Bearer ")
}

// getClaimString safely extracts a string claim from JWT claims
func getClaimString(claims jwt.MapClaims, key string) string {
	if val, ok := claims[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

// GetUserInfoFromContext returns the caller stored by RequireAuth
func GetUserInfoFromContext(c *gin.Context) (*models.UserInfo, error) {
	cognitoID := c.GetString("user_id")
	if cognitoID == "" {
		return nil, fmt.Errorf("user_id not found in context")
	}

	info := &models.UserInfo{
		CognitoID: cognitoID,
		Email:     c.GetString("email"),
		Role:      models.UserRole(c.GetString("role")),
	}
	if tenantID, err := uuid.Parse(c.GetString("tenant_id")); err == nil {
		info.TenantID = &tenantID
	}
	return info, nil
}

// CognitoRoleResolver reads custom attributes through the Cognito admin API
type CognitoRoleResolver struct {
	client     *cognitoidentityprovider.CognitoIdentityProvider
	userPoolID string
}

// NewCognitoRoleResolver creates a resolver for the given user pool
func NewCognitoRoleResolver(region, userPoolID string) (*CognitoRoleResolver, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &CognitoRoleResolver{
		client:     cognitoidentityprovider.New(sess),
		userPoolID: userPoolID,
	}, nil
}

// ResolveAttributes implements RoleResolver
func (r *CognitoRoleResolver) ResolveAttributes(ctx context.Context, sub string) (string, string, error) {
	out, err := r.client.AdminGetUserWithContext(ctx, &cognitoidentityprovider.AdminGetUserInput{
		UserPoolId: aws.String(r.userPoolID),
		Username:   aws.String(sub),
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to get user from Cognito: %w", err)
	}

	var tenantID, role string
	for _, attr := range out.UserAttributes {
		switch aws.StringValue(attr.Name) {
		case "custom:tenant_id":
			tenantID = aws.StringValue(attr.Value)
		case "custom:role":
			role = aws.StringValue(attr.Value)
		}
	}
	return tenantID, role, nil
}
