package repository

import (
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/devis-api/pkg/pagination"
	"gorm.io/gorm"
)

// documentSortColumns lists the columns quotes and invoices may be sorted by
var documentSortColumns = map[string]string{
	"created_at":      "created_at",
	"issue_date":      "issue_date",
	"number":          "number",
	"amount_excl_tax": "amount_excl_tax",
	"status":          "status",
}

// OwnedBy filters rows by owner. uuid.Nil returns every row.
func OwnedBy(userID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if userID == uuid.Nil {
			return db
		}
		return db.Where("user_id = ?", userID)
	}
}

// SearchDocuments matches the number or the object of a quote or invoice
func SearchDocuments(term string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" {
			return db
		}
		like := "%" + term + "%"
		return db.Where("number ILIKE ? OR object ILIKE ?", like, like)
	}
}

// SortDocuments orders by a whitelisted column, newest first by default
func SortDocuments(sortBy, sortOrder string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		column, ok := documentSortColumns[sortBy]
		if !ok {
			column = "created_at"
		}
		order := "DESC"
		if strings.EqualFold(sortOrder, "asc") {
			order = "ASC"
		}
		return db.Order(column + " " + order)
	}
}

// Paginate applies offset and limit, validating params first
func Paginate(params *pagination.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if params == nil {
			params = pagination.DefaultPagination()
		}
		params.Validate()
		return db.Offset(params.Offset()).Limit(params.PerPage)
	}
}

// orderedLines preloads line items in their document order with their catalog service
func orderedLines(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC").Preload("Service")
}
