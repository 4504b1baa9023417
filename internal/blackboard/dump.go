package blackboard

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/roach88/tskdbdiff/internal/tskdb"
)

// ExtractionError reports an artifact whose attributes could not be read.
// It aborts the whole blackboard dump.
type ExtractionError struct {
	ArtifactID int64
	Err        error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("attributes in artifact id #%d encountered an error: %v", e.ArtifactID, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// ArtifactResult is the outcome of serializing one artifact. Err is set when
// the artifact could not be serialized; Line is then empty.
type ArtifactResult struct {
	ArtifactID int64
	Line       string
	Attributes int
	Warnings   []string
	Err        error
}

// Result summarizes one blackboard dump.
type Result struct {
	Artifacts  int
	Attributes int
	Warnings   []string
}

// artifactRow is one artifact joined to its type and source file.
type artifactRow struct {
	ParentPath  sql.NullString
	Name        string
	DisplayName sql.NullString
	ArtifactID  int64
}

func (r artifactRow) path() string {
	return tskdb.Text(r.ParentPath.String) + tskdb.Text(r.Name)
}

// Dump writes one line per artifact to w. The output is unsorted.
//
// The first artifact that fails stops the dump with an *ExtractionError;
// whatever was already written to w is incomplete and must be discarded.
func Dump(ctx context.Context, db *tskdb.DB, w io.Writer) (*Result, error) {
	artifacts, err := listArtifacts(ctx, db)
	if err != nil {
		return nil, err
	}

	bw := bufio.NewWriter(w)
	result := &Result{}

	for _, art := range artifacts {
		res := dumpArtifact(ctx, db, art)
		if res.Err != nil {
			return nil, res.Err
		}

		result.Artifacts++
		result.Attributes += res.Attributes
		result.Warnings = append(result.Warnings, res.Warnings...)

		if _, err := bw.WriteString(res.Line + "\n"); err != nil {
			return nil, fmt.Errorf("write blackboard dump: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return nil, fmt.Errorf("write blackboard dump: %w", err)
	}

	return result, nil
}

// listArtifacts returns every artifact with its source file and type,
// ordered by file path and type. The rows are read in full before any
// attribute query runs.
func listArtifacts(ctx context.Context, db *tskdb.DB) ([]artifactRow, error) {
	rows, err := db.Query(ctx, `
		SELECT tsk_files.parent_path, tsk_files.name, blackboard_artifact_types.display_name, blackboard_artifacts.artifact_id
		FROM blackboard_artifact_types
		INNER JOIN blackboard_artifacts
			ON blackboard_artifact_types.artifact_type_id = blackboard_artifacts.artifact_type_id
		INNER JOIN tsk_files
			ON tsk_files.obj_id = blackboard_artifacts.obj_id
		ORDER BY tsk_files.parent_path, tsk_files.name, blackboard_artifact_types.display_name, blackboard_artifacts.artifact_id
	`)
	if err != nil {
		return nil, fmt.Errorf("query artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []artifactRow
	for rows.Next() {
		var art artifactRow
		if err := rows.Scan(&art.ParentPath, &art.Name, &art.DisplayName, &art.ArtifactID); err != nil {
			return nil, fmt.Errorf("scan artifact: %w", err)
		}
		artifacts = append(artifacts, art)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artifacts: %w", err)
	}

	return artifacts, nil
}

// dumpArtifact serializes one artifact and checks its attributes for
// consistency.
func dumpArtifact(ctx context.Context, db *tskdb.DB, art artifactRow) ArtifactResult {
	res := ArtifactResult{ArtifactID: art.ArtifactID}

	attrs, err := readAttributes(ctx, db, art.ArtifactID)
	if err != nil {
		res.Err = &ExtractionError{ArtifactID: art.ArtifactID, Err: err}
		return res
	}
	res.Attributes = len(attrs)

	var b strings.Builder
	b.WriteString(art.path())
	b.WriteString(` <artifact type="`)
	b.WriteString(tskdb.Text(art.DisplayName.String))
	b.WriteString(`" > `)

	if len(attrs) > 0 {
		source := attrs[0].Source
		for _, attr := range attrs {
			if n := attr.populatedSlots(); n > 1 {
				res.Warnings = append(res.Warnings, fmt.Sprintf(
					"There were too many values for attribute type: %s for artifact with id #%d.",
					attr.DisplayName, art.ArtifactID))
			}
			if attr.Source != source {
				res.Warnings = append(res.Warnings, fmt.Sprintf(
					"There were inconsistent sources for artifact with id #%d.", art.ArtifactID))
			}

			value, err := RenderValue(attr)
			if err == nil && attr.DisplayName == AssociatedArtifact {
				value, err = describeAssociated(ctx, db, value)
			}
			if err != nil {
				res.Err = &ExtractionError{ArtifactID: art.ArtifactID, Err: err}
				return res
			}

			b.WriteString(`<attribute source="`)
			b.WriteString(attr.Source)
			b.WriteString(`" type="`)
			b.WriteString(attr.DisplayName)
			b.WriteString(`" value="`)
			b.WriteString(SanitizeValue(value))
			b.WriteString(`" />`)
		}
	}

	b.WriteString(" <artifact/>")
	res.Line = b.String()
	return res
}

// readAttributes returns the attributes of an artifact ordered by every
// column that is printed, so insertion order never shows in the output.
func readAttributes(ctx context.Context, db *tskdb.DB, artifactID int64) ([]Attribute, error) {
	rows, err := db.Query(ctx, `
		SELECT blackboard_attributes.source, blackboard_attribute_types.display_name,
			blackboard_attributes.value_type, blackboard_attributes.value_text,
			blackboard_attributes.value_int32, blackboard_attributes.value_int64,
			blackboard_attributes.value_double
		FROM blackboard_attributes
		INNER JOIN blackboard_attribute_types
			ON blackboard_attributes.attribute_type_id = blackboard_attribute_types.attribute_type_id
		WHERE artifact_id = ?
		ORDER BY blackboard_attributes.source, blackboard_attribute_types.display_name,
			blackboard_attributes.value_type, blackboard_attributes.value_text,
			blackboard_attributes.value_int32, blackboard_attributes.value_int64,
			blackboard_attributes.value_double
	`, artifactID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attrs []Attribute
	for rows.Next() {
		var attr Attribute
		var source, displayName sql.NullString
		if err := rows.Scan(&source, &displayName, &attr.ValueType,
			&attr.Text, &attr.Int32, &attr.Int64, &attr.Double); err != nil {
			return nil, err
		}
		attr.Source = tskdb.Text(source.String)
		attr.DisplayName = tskdb.Text(displayName.String)
		attrs = append(attrs, attr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return attrs, nil
}

// describeAssociated renders the artifact an Associated Artifact attribute
// points at as "File path: <path> Artifact Type: <type>".
func describeAssociated(ctx context.Context, db *tskdb.DB, raw string) (string, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return "", fmt.Errorf("associated artifact value %q is not an artifact id", raw)
	}

	var art artifactRow
	err = db.QueryRow(ctx, `
		SELECT tsk_files.parent_path, tsk_files.name, blackboard_artifact_types.display_name
		FROM blackboard_artifact_types
		INNER JOIN blackboard_artifacts
			ON blackboard_artifact_types.artifact_type_id = blackboard_artifacts.artifact_type_id
		INNER JOIN tsk_files
			ON tsk_files.obj_id = blackboard_artifacts.obj_id
		WHERE blackboard_artifacts.artifact_id = ?
	`, id).Scan(&art.ParentPath, &art.Name, &art.DisplayName)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("associated artifact %d not found", id)
	}
	if err != nil {
		return "", fmt.Errorf("look up associated artifact %d: %w", id, err)
	}

	return "File path: " + art.path() + " Artifact Type: " + tskdb.Text(art.DisplayName.String), nil
}
