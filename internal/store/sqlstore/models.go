package sqlstore

import (
	"time"

	"github.com/MrSnakeDoc/nextdir/internal/store"
)

type resourceRow struct {
	ID            string `gorm:"primaryKey;size:64"`
	Title         string `gorm:"not null"`
	Description   string
	URL           string `gorm:"column:url;index"`
	Category      string `gorm:"index"`
	Tags          string `gorm:"type:text"` // JSON array
	Author        string
	AuthorURL     string `gorm:"column:author_url"`
	GitHubURL     string `gorm:"column:github_url"`
	Documentation string
	License       string
	Featured      int
	Stars         int
	Status        string `gorm:"size:16;index"`
	UserID        string `gorm:"column:user_id;index"`
	CreatedAt     time.Time `gorm:"index"`
	UpdatedAt     time.Time
}

func (resourceRow) TableName() string { return store.CollectionResources }

type directoryRow struct {
	ID          string `gorm:"primaryKey;size:64"`
	Name        string `gorm:"not null"`
	Description string
	Icon        string
	Color       string `gorm:"size:7"`
	CreatedBy   string `gorm:"column:created_by"`
	IsPublic    bool   `gorm:"column:is_public"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (directoryRow) TableName() string { return store.CollectionDirectories }

var resourcesTable = table[resourceRow]{
	fields: map[string]column{
		"id":            {"id", kindString},
		"title":         {"title", kindString},
		"description":   {"description", kindString},
		"url":           {"url", kindString},
		"category":      {"category", kindString},
		"tags":          {"tags", kindString},
		"author":        {"author", kindString},
		"authorUrl":     {"author_url", kindString},
		"githubUrl":     {"github_url", kindString},
		"documentation": {"documentation", kindString},
		"license":       {"license", kindString},
		"featured":      {"featured", kindInt},
		"stars":         {"stars", kindInt},
		"status":        {"status", kindString},
		"userId":        {"user_id", kindString},
		"createdAt":     {"created_at", kindTime},
		"updatedAt":     {"updated_at", kindTime},
	},
	encode: func(r store.Record) *resourceRow {
		return &resourceRow{
			ID:            asString(r["id"]),
			Title:         asString(r["title"]),
			Description:   asString(r["description"]),
			URL:           asString(r["url"]),
			Category:      asString(r["category"]),
			Tags:          asString(r["tags"]),
			Author:        asString(r["author"]),
			AuthorURL:     asString(r["authorUrl"]),
			GitHubURL:     asString(r["githubUrl"]),
			Documentation: asString(r["documentation"]),
			License:       asString(r["license"]),
			Featured:      asInt(r["featured"]),
			Stars:         asInt(r["stars"]),
			Status:        asString(r["status"]),
			UserID:        asString(r["userId"]),
			CreatedAt:     asTime(r["createdAt"]),
			UpdatedAt:     asTime(r["updatedAt"]),
		}
	},
	decode: func(row *resourceRow) store.Record {
		return store.Record{
			"id":            row.ID,
			"title":         row.Title,
			"description":   row.Description,
			"url":           row.URL,
			"category":      row.Category,
			"tags":          row.Tags,
			"author":        row.Author,
			"authorUrl":     row.AuthorURL,
			"githubUrl":     row.GitHubURL,
			"documentation": row.Documentation,
			"license":       row.License,
			"featured":      row.Featured,
			"stars":         row.Stars,
			"status":        row.Status,
			"userId":        row.UserID,
			"createdAt":     formatTime(row.CreatedAt),
			"updatedAt":     formatTime(row.UpdatedAt),
		}
	},
}

var directoriesTable = table[directoryRow]{
	fields: map[string]column{
		"id":          {"id", kindString},
		"name":        {"name", kindString},
		"description": {"description", kindString},
		"icon":        {"icon", kindString},
		"color":       {"color", kindString},
		"createdBy":   {"created_by", kindString},
		"isPublic":    {"is_public", kindBool},
		"createdAt":   {"created_at", kindTime},
		"updatedAt":   {"updated_at", kindTime},
	},
	encode: func(r store.Record) *directoryRow {
		return &directoryRow{
			ID:          asString(r["id"]),
			Name:        asString(r["name"]),
			Description: asString(r["description"]),
			Icon:        asString(r["icon"]),
			Color:       asString(r["color"]),
			CreatedBy:   asString(r["createdBy"]),
			IsPublic:    asBool(r["isPublic"]),
			CreatedAt:   asTime(r["createdAt"]),
			UpdatedAt:   asTime(r["updatedAt"]),
		}
	},
	decode: func(row *directoryRow) store.Record {
		return store.Record{
			"id":          row.ID,
			"name":        row.Name,
			"description": row.Description,
			"icon":        row.Icon,
			"color":       row.Color,
			"createdBy":   row.CreatedBy,
			"isPublic":    row.IsPublic,
			"createdAt":   formatTime(row.CreatedAt),
			"updatedAt":   formatTime(row.UpdatedAt),
		}
	},
}
