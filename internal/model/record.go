// Package model defines the data types shared across the scrape pipeline.
package model

import (
	"crypto/md5" //nolint:gosec // identifier derivation, not cryptography
	"encoding/hex"
	"time"
)

// Record is structured data extracted from one page, keyed by schema field.
type Record map[string]any

// Document is the persisted form of a Record: the extracted fields plus
// the source URL and scrape timestamp, keyed by a stable identifier
// derived from the URL.
type Document struct {
	ID        string    `bson:"_id" json:"_id"`
	SourceURL string    `bson:"source_url" json:"source_url"`
	ScrapedAt time.Time `bson:"scraped_at" json:"scraped_at"`
	Record    Record    `bson:"record" json:"record"`
}

// DocumentID derives the stable document key for a URL. The same URL
// always yields the same key, so repeated scrapes upsert rather than
// duplicate.
func DocumentID(url string) string {
	sum := md5.Sum([]byte(url)) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

// NewDocument builds a Document for a scraped record.
func NewDocument(url string, rec Record, scrapedAt time.Time) Document {
	return Document{
		ID:        DocumentID(url),
		SourceURL: url,
		ScrapedAt: scrapedAt.UTC(),
		Record:    rec,
	}
}
