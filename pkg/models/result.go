package models

import (
	"time"

	"github.com/google/uuid"
)

// ResultKind tags the shape of a ProviderResult.
type ResultKind string

const (
	ResultText         ResultKind = "text"
	ResultTextList     ResultKind = "textList"
	ResultMediaURL     ResultKind = "mediaUrl"
	ResultMediaURLList ResultKind = "mediaUrlList"
)

// ProviderResult is an adapter's output. Media results hold provider URLs until the
// dispatcher rehosts them; Data holds bytes for providers that answer with a payload.
type ProviderResult struct {
	Kind        ResultKind `json:"kind"`
	Text        string     `json:"text,omitempty"`
	Texts       []string   `json:"texts,omitempty"`
	URLs        []string   `json:"urls,omitempty"`
	Data        []byte     `json:"-"`
	ContentType string     `json:"-"`
}

// TextResult wraps a single text output.
func TextResult(text string) *ProviderResult {
	return &ProviderResult{Kind: ResultText, Text: text}
}

// TextListResult wraps a list of text outputs.
func TextListResult(texts []string) *ProviderResult {
	return &ProviderResult{Kind: ResultTextList, Texts: texts}
}

// MediaResult wraps one or more media URLs.
func MediaResult(urls ...string) *ProviderResult {
	if len(urls) == 1 {
		return &ProviderResult{Kind: ResultMediaURL, URLs: urls}
	}
	return &ProviderResult{Kind: ResultMediaURLList, URLs: urls}
}

// IsMedia reports whether the result refers to media assets.
func (r *ProviderResult) IsMedia() bool {
	return r != nil && (r.Kind == ResultMediaURL || r.Kind == ResultMediaURLList)
}

// URL returns the first media URL, or "".
func (r *ProviderResult) URL() string {
	if r == nil || len(r.URLs) == 0 {
		return ""
	}
	return r.URLs[0]
}

// MediaAsset is a provider asset copied into durable storage. StoredURL stays
// resolvable for as long as the backing bucket exists.
type MediaAsset struct {
	ID            uuid.UUID `db:"id"             json:"id"`
	CanonicalName string    `db:"canonical_name" json:"canonical_name"`
	SourceURL     string    `db:"source_url"     json:"source_url,omitempty"`
	StoredURL     string    `db:"stored_url"     json:"stored_url"`
	ContentType   string    `db:"content_type"   json:"content_type,omitempty"`
	SizeBytes     int64     `db:"size_bytes"     json:"size_bytes"`
	CreatedAt     time.Time `db:"created_at"     json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"     json:"updated_at"`
}

// Outcome is what a dispatch produces: an inline result, or a handle to poll.
type Outcome struct {
	Result *ProviderResult
	Job    *JobHandle
}
