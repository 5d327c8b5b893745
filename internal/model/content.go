package model

// ContentSection represents a row in the `content_sections` table. Each row
// holds one editable region of the public site (hero text, FAQ items,
// founder bios and so on) as a sanitized JSON document keyed by a short
// section name.
//
// Fields:
//  SectionKey – unique section identifier, restricted to [a-zA-Z0-9._-]
//               and at most 100 characters.
//  Data       – the sanitized JSON document, stored serialized.
//  UpdatedAt  – Unix timestamp, maintained by a database trigger on every
//               row modification.
type ContentSection struct {
	SectionKey string // content_sections.section_key
	Data       string // content_sections.data
	UpdatedAt  int64  // content_sections.updated_at
}
