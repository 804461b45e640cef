package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	firebase "firebase.google.com/go"
	fbauth "firebase.google.com/go/auth"
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/cafe-api/models"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"
	"gorm.io/gorm"
)

// Identity is what a verified Google sign-in tells us about the user.
type Identity struct {
	UID     string
	Email   string
	Name    string
	Picture string
}

// IDTokenVerifier checks a Google ID token and returns who it belongs to.
type IDTokenVerifier interface {
	Verify(ctx context.Context, idToken string) (Identity, error)
}

// FirebaseVerifier verifies ID tokens with the Firebase Admin SDK.
type FirebaseVerifier struct {
	client    *fbauth.Client
	projectID string
}

func NewFirebaseVerifier(ctx context.Context, credentialsJSON, projectID string) (*FirebaseVerifier, error) {
	opt := option.WithCredentialsJSON([]byte(credentialsJSON))
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opt)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth client: %w", err)
	}
	return &FirebaseVerifier{client: client, projectID: projectID}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (Identity, error) {
	token, err := v.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		return Identity{}, err
	}
	if token.Audience != v.projectID {
		return Identity{}, fmt.Errorf("token audience mismatch: got %q", token.Audience)
	}
	email, _ := token.Claims["email"].(string)
	if email == "" {
		return Identity{}, errors.New("email not found in token")
	}
	name, _ := token.Claims["name"].(string)
	picture, _ := token.Claims["picture"].(string)
	return Identity{UID: token.UID, Email: email, Name: name, Picture: picture}, nil
}

// GoogleAdminLogin signs staff in with a Google ID token. Unknown emails are
// registered as pending admins; only approved admins and the super admin get
// a token. A nil verifier means Google sign-in is not configured.
func GoogleAdminLogin(db *gorm.DB, verifier IDTokenVerifier, issuer *Issuer, superAdminEmail string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google sign-in is not configured"})
			return
		}

		var req struct {
			IDToken string `json:"idToken" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
			return
		}

		id, err := verifier.Verify(c.Request.Context(), req.IDToken)
		if err != nil {
			log.WithError(err).Warn("❌ ID token verification failed")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or revoked ID token"})
			return
		}

		if superAdminEmail != "" && id.Email == superAdminEmail {
			respondWithToken(c, issuer, id, RoleSuperAdmin)
			return
		}

		db = db.WithContext(c.Request.Context())
		var admin models.Admin
		err = db.Where("email = ?", id.Email).First(&admin).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			admin = models.Admin{Email: id.Email, Name: id.Name, Picture: id.Picture}
			if err := db.Create(&admin).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register admin"})
				return
			}
			log.WithField("email", id.Email).Info("📝 New admin registered (pending approval)")
			c.JSON(http.StatusForbidden, gin.H{"error": "Pending approval by super admin"})
			return
		} else if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		if err := db.Model(&admin).Updates(models.Admin{Name: id.Name, Picture: id.Picture}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update admin info"})
			return
		}
		if !admin.Approved {
			c.JSON(http.StatusForbidden, gin.H{"error": "Pending approval by super admin"})
			return
		}

		respondWithToken(c, issuer, id, RoleAdmin)
	}
}

func respondWithToken(c *gin.Context, issuer *Issuer, id Identity, role string) {
	token, err := issuer.AdminToken(id.Email, role, id.UID)
	if err != nil {
		log.WithError(err).Error("❌ Failed to sign admin JWT")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"role":    role,
		"email":   id.Email,
		"name":    id.Name,
		"picture": id.Picture,
	})
}
