package productcontroller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/cafe-api/cart"
	"github.com/junaidrashid-git/cafe-api/models"
	log "github.com/sirupsen/logrus"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// menuColumns is the sheet layout shared by import and export. One row per
// variant; rows of the same category and item are merged.
var menuColumns = []string{"Category", "Item", "Description", "Veg", "Size", "Variant", "Price", "Out of stock"}

type importedItem struct {
	Category     string
	Name         string
	Description  string
	IsVeg        bool
	IsOutOfStock bool
	Variants     []models.ItemVariant
}

func parseSheetBool(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "1":
		return true
	case "no", "n", "false", "0":
		return false
	default:
		return def
	}
}

// parseMenuSheet reads data rows after the header. Rows without a category,
// item name or valid price are skipped and counted.
func parseMenuSheet(sheet *xlsx.Sheet) ([]importedItem, int) {
	var (
		items   []importedItem
		index   = map[string]int{}
		skipped int
	)
	for i := 1; i < len(sheet.Rows); i++ {
		row := sheet.Rows[i]
		if row == nil {
			continue
		}
		get := func(idx int) string {
			if idx < len(row.Cells) {
				return strings.TrimSpace(row.Cells[idx].String())
			}
			return ""
		}

		category, name := get(0), get(1)
		if category == "" && name == "" {
			continue
		}
		price, err := cart.ParseRupees(get(6))
		if category == "" || name == "" || err != nil {
			skipped++
			continue
		}

		key := strings.ToLower(category) + "\x00" + strings.ToLower(name)
		pos, ok := index[key]
		if !ok {
			items = append(items, importedItem{
				Category:     category,
				Name:         name,
				Description:  get(2),
				IsVeg:        parseSheetBool(get(3), true),
				IsOutOfStock: parseSheetBool(get(7), false),
			})
			pos = len(items) - 1
			index[key] = pos
		}
		it := &items[pos]
		it.Variants = append(it.Variants, models.ItemVariant{
			Size:      get(4),
			Variant:   get(5),
			Price:     int64(price),
			IsDefault: len(it.Variants) == 0,
		})
	}
	return items, skipped
}

// POST /admin/menu/import-excel
//
// Categories are matched by name and created when missing. Items are
// matched by category and name; a matched item has its variants replaced.
func ImportMenuFromExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}
		file, err := excelFileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse Excel file"})
			return
		}
		if len(xlFile.Sheets) == 0 || len(xlFile.Sheets[0].Rows) < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is empty or missing header row"})
			return
		}

		items, skipped := parseMenuSheet(xlFile.Sheets[0])
		created, updated, err := saveImportedItems(db, items)
		if err != nil {
			log.WithError(err).Error("❌ Menu import failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Menu import failed: " + err.Error()})
			return
		}

		log.WithFields(log.Fields{"created": created, "updated": updated, "skipped": skipped}).Info("📥 Menu imported")
		c.JSON(http.StatusOK, gin.H{
			"message": "Import completed",
			"created": created,
			"updated": updated,
			"skipped": skipped,
		})
	}
}

func saveImportedItems(db *gorm.DB, items []importedItem) (created, updated int, err error) {
	err = db.Transaction(func(tx *gorm.DB) error {
		categories := map[string]uint{}
		for _, in := range items {
			catKey := strings.ToLower(in.Category)
			catID, ok := categories[catKey]
			if !ok {
				var cat models.Category
				if err := tx.Where("LOWER(name) = ?", catKey).First(&cat).Error; err != nil {
					if !errors.Is(err, gorm.ErrRecordNotFound) {
						return err
					}
					cat = models.Category{Name: in.Category}
					if err := tx.Create(&cat).Error; err != nil {
						return err
					}
				}
				catID = cat.ID
				categories[catKey] = catID
			}

			var item models.MenuItem
			err := tx.Where("category_id = ? AND LOWER(name) = ?", catID, strings.ToLower(in.Name)).First(&item).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				item = models.MenuItem{
					CategoryID:   catID,
					Name:         in.Name,
					Description:  in.Description,
					IsVeg:        in.IsVeg,
					IsOutOfStock: in.IsOutOfStock,
					Variants:     in.Variants,
				}
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
				created++
			case err != nil:
				return err
			default:
				item.Description = in.Description
				item.IsVeg = in.IsVeg
				item.IsOutOfStock = in.IsOutOfStock
				if err := tx.Omit("Variants").Save(&item).Error; err != nil {
					return err
				}
				if err := tx.Where("menu_item_id = ?", item.ID).Delete(&models.ItemVariant{}).Error; err != nil {
					return err
				}
				variants := append([]models.ItemVariant(nil), in.Variants...)
				for i := range variants {
					variants[i].MenuItemID = item.ID
				}
				if err := tx.Create(&variants).Error; err != nil {
					return err
				}
				updated++
			}
		}
		return nil
	})
	return created, updated, err
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// MenuWorkbook writes categories in the import layout.
func MenuWorkbook(categories []models.Category) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Menu")
	if err != nil {
		return nil, err
	}
	header := sheet.AddRow()
	for _, h := range menuColumns {
		header.AddCell().SetValue(h)
	}
	for _, cat := range categories {
		for _, item := range cat.Items {
			for _, v := range item.Variants {
				row := sheet.AddRow()
				row.AddCell().SetValue(cat.Name)
				row.AddCell().SetValue(item.Name)
				row.AddCell().SetValue(item.Description)
				row.AddCell().SetValue(yesNo(item.IsVeg))
				row.AddCell().SetValue(v.Size)
				row.AddCell().SetValue(v.Variant)
				row.AddCell().SetValue(cart.Paise(v.Price).Rupees().StringFixed(2))
				row.AddCell().SetValue(yesNo(item.IsOutOfStock))
			}
		}
	}
	return file, nil
}

// GET /admin/menu/export-excel
func ExportMenuToExcel(menu MenuReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		regular, err := menu.Menu(ctx)
		if err == nil {
			var extras []models.Category
			extras, err = menu.AddonCategories(ctx)
			regular = append(regular, extras...)
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch menu"})
			return
		}

		file, err := MenuWorkbook(regular)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		c.Header("Content-Disposition", "attachment; filename=menu.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")
		if err := file.Write(c.Writer); err != nil {
			log.WithError(err).Error("❌ Failed to write menu workbook")
		}
	}
}
