package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/catalog"
)

const (
	cypherUpsertBook = `
MERGE (b:Book {isbn: $isbn})
SET b.title = $title,
    b.authors = $authors,
    b.publisher = $publisher,
    b.published_year = $published_year,
    b.language = $language,
    b.description = $description,
    b.cover = $cover,
    b.updatedAt = datetime()`

	cypherEnsureLevel1 = `
MERGE (n:NDC {code: $code})
SET n.level = 1`

	cypherEnsureLevel2 = `
MERGE (n:NDC {code: $code})
SET n.level = 2
WITH n
MATCH (p:NDC {code: $parent})
MERGE (n)-[:BROADER]->(p)`

	cypherEnsureLevel3 = `
MERGE (n:NDC {code: $code})
SET n.level = 3
WITH n
MATCH (p:NDC {code: $parent})
MERGE (n)-[:BROADER]->(p)`

	cypherClassify = `
MATCH (b:Book {isbn: $isbn})
MERGE (n:NDC {code: $code})
MERGE (b)-[:CLASSIFIED_AS]->(n)`

	cypherAttachLeafParent = `
MATCH (n:NDC {code: $code})
MATCH (p:NDC {code: $parent})
MERGE (n)-[:BROADER]->(p)`

	cypherAttachSubject = `
MATCH (b:Book {isbn: $isbn})
MERGE (s:Subject {name: $name})
MERGE (b)-[:HAS_SUBJECT]->(s)`

	cypherAttachMeaning = `
MATCH (b:Book {isbn: $isbn})
CREATE (m:Meaning {id: $id, text: $text, createdAt: datetime()})
CREATE (b)-[:HAS_MEANING]->(m)`
)

// Ingest stores one book with its classification hierarchy, subjects,
// and an optional user annotation, all in one transaction. Re-ingesting
// the same ISBN updates the book and leaves the hierarchy untouched;
// only annotations accumulate.
func (s *Store) Ingest(ctx context.Context, meta *catalog.Metadata, meaning string) error {
	if meta == nil || meta.ISBN == "" {
		return fmt.Errorf("ingest requires a book with an isbn")
	}

	err := s.write(ctx, func(r runner) error {
		return ingestSteps(ctx, r, meta, meaning)
	})
	if err != nil {
		return fmt.Errorf("ingesting %s: %w", meta.ISBN, err)
	}

	s.logger.Info("book ingested", "isbn", meta.ISBN, "title", meta.Title)
	return nil
}

// ingestSteps issues the ordered statements that make up one ingest.
// Parents are merged before children so BROADER edges always find their
// target.
func ingestSteps(ctx context.Context, r runner, meta *catalog.Metadata, meaning string) error {
	if err := r.run(ctx, cypherUpsertBook, map[string]any{
		"isbn":           meta.ISBN,
		"title":          meta.Title,
		"authors":        strings.Join(meta.Authors, ", "),
		"publisher":      meta.Publisher,
		"published_year": meta.PublishedYear,
		"language":       meta.Language,
		"description":    meta.Description,
		"cover":          meta.Cover,
	}); err != nil {
		return err
	}

	if ndc := meta.NDC; ndc != nil {
		if err := r.run(ctx, cypherEnsureLevel1, map[string]any{"code": ndc.Level1}); err != nil {
			return err
		}
		if ndc.Level2 != "" {
			if err := r.run(ctx, cypherEnsureLevel2, map[string]any{"code": ndc.Level2, "parent": ndc.Level1}); err != nil {
				return err
			}
		}
		if ndc.Level3 != "" {
			if err := r.run(ctx, cypherEnsureLevel3, map[string]any{"code": ndc.Level3, "parent": ndc.Level2}); err != nil {
				return err
			}
		}
		if ndc.Code != "" {
			if err := r.run(ctx, cypherClassify, map[string]any{"isbn": meta.ISBN, "code": ndc.Code}); err != nil {
				return err
			}
			// a full code longer than its level-3 prefix (913.6) merges a
			// fresh leaf node; hang it under the deepest level so it joins
			// the hierarchy
			if ndc.Level3 != "" && ndc.Code != ndc.Level3 {
				if err := r.run(ctx, cypherAttachLeafParent, map[string]any{"code": ndc.Code, "parent": ndc.Level3}); err != nil {
					return err
				}
			}
		}
	}

	for _, name := range meta.Subjects {
		if err := r.run(ctx, cypherAttachSubject, map[string]any{"isbn": meta.ISBN, "name": name}); err != nil {
			return err
		}
	}

	if meaning != "" {
		if err := r.run(ctx, cypherAttachMeaning, map[string]any{
			"isbn": meta.ISBN,
			"id":   uuid.NewString(),
			"text": meaning,
		}); err != nil {
			return err
		}
	}

	return nil
}
