package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/glossa-api/internal/domain"
	"github.com/phrazzld/glossa-api/internal/store"
)

// Both content_items and published_posts carry the same artifact columns.
const artifactSelectColumns = "breakdown_desktop, breakdown_mobile, phonetic, audio, audio_mime"

// textArtifactColumns maps text variants to their column. Column names are
// only ever taken from this map, never from input.
var textArtifactColumns = map[domain.ArtifactVariant]string{
	domain.VariantBreakdownDesktop: "breakdown_desktop",
	domain.VariantBreakdownMobile:  "breakdown_mobile",
	domain.VariantPhonetic:         "phonetic",
}

// artifactRow is the scan target for the artifact columns.
type artifactRow struct {
	breakdownDesktop sql.NullString
	breakdownMobile  sql.NullString
	phonetic         sql.NullString
	audio            []byte
	audioMIME        sql.NullString
}

func (r *artifactRow) scanDest() []any {
	return []any{&r.breakdownDesktop, &r.breakdownMobile, &r.phonetic, &r.audio, &r.audioMIME}
}

func (r *artifactRow) toDomain() domain.Artifacts {
	arts := domain.Artifacts{}
	arts.Set(domain.VariantBreakdownDesktop, domain.Artifact{Text: r.breakdownDesktop.String})
	arts.Set(domain.VariantBreakdownMobile, domain.Artifact{Text: r.breakdownMobile.String})
	arts.Set(domain.VariantPhonetic, domain.Artifact{Text: r.phonetic.String})
	arts.Set(domain.VariantAudio, domain.Artifact{Data: r.audio, MIMEType: r.audioMIME.String})
	return arts
}

// artifactArgs returns insert arguments in artifactSelectColumns order.
// Absent variants are stored as NULL.
func artifactArgs(arts domain.Artifacts) []any {
	text := func(v domain.ArtifactVariant) sql.NullString {
		art, ok := arts.Get(v)
		return sql.NullString{String: art.Text, Valid: ok}
	}

	var audio []byte
	var mime sql.NullString
	if art, ok := arts.Get(domain.VariantAudio); ok {
		audio = art.Data
		mime = sql.NullString{String: art.MIMEType, Valid: art.MIMEType != ""}
	}

	return []any{
		text(domain.VariantBreakdownDesktop),
		text(domain.VariantBreakdownMobile),
		text(domain.VariantPhonetic),
		audio,
		mime,
	}
}

// setArtifactIfEmpty writes a single artifact variant on table only when the
// stored value is still empty. It reports whether a row was updated.
func setArtifactIfEmpty(
	ctx context.Context,
	db store.DBTX,
	table string,
	id uuid.UUID,
	variant domain.ArtifactVariant,
	art domain.Artifact,
) (bool, error) {
	if art.IsEmpty() {
		return false, fmt.Errorf("%w: empty %s artifact", store.ErrInvalidEntity, variant)
	}

	var (
		query string
		args  []any
	)
	if variant == domain.VariantAudio {
		query = fmt.Sprintf(`
			UPDATE %s
			SET audio = $2, audio_mime = $3, updated_at = NOW()
			WHERE id = $1 AND (audio IS NULL OR octet_length(audio) = 0)
		`, table)
		args = []any{id, art.Data, art.MIMEType}
	} else {
		column, ok := textArtifactColumns[variant]
		if !ok {
			return false, fmt.Errorf("%w: %q", domain.ErrInvalidVariant, variant)
		}
		query = fmt.Sprintf(`
			UPDATE %s
			SET %s = $2, updated_at = NOW()
			WHERE id = $1 AND (%s IS NULL OR %s = '')
		`, table, column, column, column)
		args = []any{id, art.Text}
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, wrapError(table, "set_artifact", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}
