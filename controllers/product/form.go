package productcontroller

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/cafe-api/cart"
	"github.com/junaidrashid-git/cafe-api/models"
	"github.com/lib/pq"
)

// VariantInput is one variant as the admin form sends it. Price is rupees.
type VariantInput struct {
	Size    string `json:"size"`
	Variant string `json:"variant"`
	Price   string `json:"price"`
}

// parseVariants decodes the "variants" form field. The first variant becomes
// the default one.
func parseVariants(raw string) ([]models.ItemVariant, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errors.New("at least one variant is required")
	}
	var in []VariantInput
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		return nil, fmt.Errorf("invalid variants: %w", err)
	}
	if len(in) == 0 {
		return nil, errors.New("at least one variant is required")
	}

	out := make([]models.ItemVariant, 0, len(in))
	for i, v := range in {
		price, err := cart.ParseRupees(v.Price)
		if err != nil {
			return nil, fmt.Errorf("variant %d: %w", i+1, err)
		}
		out = append(out, models.ItemVariant{
			Size:      strings.TrimSpace(v.Size),
			Variant:   strings.TrimSpace(v.Variant),
			Price:     int64(price),
			IsDefault: i == 0,
		})
	}
	return out, nil
}

// formRupees reads a required rupee amount and returns paise.
func formRupees(c *gin.Context, key string) (int64, error) {
	raw := c.PostForm(key)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	p, err := cart.ParseRupees(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return int64(p), nil
}

// formBool reads an optional boolean, falling back to def when absent.
func formBool(c *gin.Context, key string, def bool) (bool, error) {
	raw, ok := c.GetPostForm(key)
	if !ok || raw == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s", key)
	}
	return b, nil
}

// parseIDList parses "1, 2,3" into an id array. Blank input yields an empty
// array rather than NULL.
func parseIDList(raw string) (pq.Int64Array, error) {
	ids := pq.Int64Array{}
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		id, err := strconv.ParseInt(tok, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid id %q", tok)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
