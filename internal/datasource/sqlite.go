package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/beads-tui/pkg/debug"
	"github.com/vanderheijden86/beads-tui/pkg/model"
)

// SQLiteReader provides read access to a beads SQLite database.
type SQLiteReader struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens the database at path read-only.
func OpenSQLite(path string) (*SQLiteReader, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot open database %s: %w", path, err)
	}

	pragmas := []string{
		"PRAGMA cache_size = -16000",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			debug.Log("sqlite: %s: %v", pragma, err)
		}
	}

	return &SQLiteReader{db: db, path: path}, nil
}

// Close closes the database connection.
func (r *SQLiteReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadAll reads every issue with its labels, comments and relationship
// lists, sorted for display. Issues and dependencies are required; labels
// and comments are best-effort since older databases may lack the tables.
func (r *SQLiteReader) LoadAll(ctx context.Context) ([]model.Issue, error) {
	defer debug.LogEnterExit("datasource.LoadAll")()

	var (
		issues   []model.Issue
		deps     []model.Dependency
		labels   map[string][]string
		comments map[string][]*model.Comment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		issues, err = r.loadIssues(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		deps, err = r.loadDependencies(gctx)
		return err
	})
	g.Go(func() error {
		labels = r.loadLabels(gctx)
		return nil
	})
	g.Go(func() error {
		comments = r.loadComments(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range issues {
		if ls, ok := labels[issues[i].ID]; ok {
			issues[i].Labels = ls
		}
		issues[i].Comments = comments[issues[i].ID]
	}
	model.ApplyDependencies(issues, deps)
	model.SortForDisplay(issues)

	debug.Log("datasource: %d issues, %d dependencies from %s", len(issues), len(deps), r.path)
	return issues, nil
}

func (r *SQLiteReader) loadIssues(ctx context.Context) ([]model.Issue, error) {
	query := `
		SELECT
			id, title, description, status, priority, issue_type,
			assignee, created_by, created_at, updated_at, closed_at, close_reason
		FROM issues
		WHERE status != 'tombstone'
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		// Older schemas lack some columns.
		return r.loadIssuesSimple(ctx)
	}
	defer rows.Close()

	var issues []model.Issue
	for rows.Next() {
		var (
			issue                            model.Issue
			description, assignee, createdBy sql.NullString
			createdAt, updatedAt, closedAt   sql.NullString
			closeReason, status, issueType   sql.NullString
			priority                         sql.NullInt64
		)
		if err := rows.Scan(
			&issue.ID, &issue.Title, &description, &status, &priority, &issueType,
			&assignee, &createdBy, &createdAt, &updatedAt, &closedAt, &closeReason,
		); err != nil {
			return nil, fmt.Errorf("scanning issue: %w", err)
		}

		issue.Description = description.String
		issue.Status = model.ParseStatus(status.String)
		issue.Priority = priorityOrDefault(priority)
		issue.IssueType = model.ParseIssueType(issueType.String)
		issue.Assignee = assignee.String
		issue.CreatedBy = createdBy.String
		issue.CreatedAt = parseTime(createdAt)
		issue.UpdatedAt = parseTime(updatedAt)
		if t := parseTime(closedAt); !t.IsZero() {
			issue.ClosedAt = &t
		}
		issue.CloseReason = closeReason.String

		issues = append(issues, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating issues: %w", err)
	}

	return issues, nil
}

// loadIssuesSimple is a fallback for databases with fewer columns.
func (r *SQLiteReader) loadIssuesSimple(ctx context.Context) ([]model.Issue, error) {
	query := `SELECT id, title, description, status, priority, issue_type, created_at, updated_at FROM issues`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var issues []model.Issue
	for rows.Next() {
		var (
			issue                      model.Issue
			description, status, itype sql.NullString
			createdAt, updatedAt       sql.NullString
			priority                   sql.NullInt64
		)
		if err := rows.Scan(&issue.ID, &issue.Title, &description, &status, &priority, &itype, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning issue: %w", err)
		}
		issue.Description = description.String
		issue.Status = model.ParseStatus(status.String)
		issue.Priority = priorityOrDefault(priority)
		issue.IssueType = model.ParseIssueType(itype.String)
		issue.CreatedAt = parseTime(createdAt)
		issue.UpdatedAt = parseTime(updatedAt)
		issues = append(issues, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating issues: %w", err)
	}
	return issues, nil
}

func (r *SQLiteReader) loadDependencies(ctx context.Context) ([]model.Dependency, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT issue_id, depends_on_id, type FROM dependencies`)
	if err != nil {
		return nil, fmt.Errorf("loading dependencies: %w", err)
	}
	defer rows.Close()

	var deps []model.Dependency
	for rows.Next() {
		var dep model.Dependency
		var depType sql.NullString
		if err := rows.Scan(&dep.IssueID, &dep.DependsOnID, &depType); err != nil {
			continue
		}
		dep.Type = model.ParseDependencyType(depType.String)
		deps = append(deps, dep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dependencies: %w", err)
	}
	return deps, nil
}

// loadLabels reads the labels table, falling back to the JSON labels
// column that older databases keep on the issues table.
func (r *SQLiteReader) loadLabels(ctx context.Context) map[string][]string {
	out := make(map[string][]string)

	rows, err := r.db.QueryContext(ctx, `SELECT issue_id, label FROM labels ORDER BY issue_id, label`)
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var id, label string
			if err := rows.Scan(&id, &label); err != nil {
				continue
			}
			out[id] = append(out[id], label)
		}
		return out
	}
	debug.Log("sqlite: labels table unavailable (%v), trying labels column", err)

	colRows, err := r.db.QueryContext(ctx, `SELECT id, labels FROM issues`)
	if err != nil {
		debug.Log("sqlite: no labels available: %v", err)
		return out
	}
	defer colRows.Close()
	for colRows.Next() {
		var id string
		var raw sql.NullString
		if err := colRows.Scan(&id, &raw); err != nil {
			continue
		}
		if ls := parseJSONStringArray(raw.String); len(ls) > 0 {
			out[id] = ls
		}
	}
	return out
}

func (r *SQLiteReader) loadComments(ctx context.Context) map[string][]*model.Comment {
	out := make(map[string][]*model.Comment)

	rows, err := r.db.QueryContext(ctx, `SELECT id, issue_id, author, text, created_at FROM comments ORDER BY created_at, id`)
	if err != nil {
		debug.Log("sqlite: comments unavailable: %v", err)
		return out
	}
	defer rows.Close()

	for rows.Next() {
		var c model.Comment
		var author sql.NullString
		var createdAt sql.NullString
		if err := rows.Scan(&c.ID, &c.IssueID, &author, &c.Text, &createdAt); err != nil {
			continue
		}
		c.Author = author.String
		c.CreatedAt = parseTime(createdAt)
		out[c.IssueID] = append(out[c.IssueID], &c)
	}
	return out
}

func priorityOrDefault(p sql.NullInt64) int {
	if !p.Valid {
		return model.DefaultPriority
	}
	return int(p.Int64)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTime accepts the timestamp spellings sqlite drivers write. Unparseable
// values yield the zero time.
func parseTime(s sql.NullString) time.Time {
	if !s.Valid {
		return time.Time{}
	}
	v := strings.TrimSpace(s.String)
	if v == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

// parseJSONStringArray parses a JSON array of strings.
func parseJSONStringArray(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" || s == "[]" {
		return nil
	}

	var result []string
	if err := json.Unmarshal([]byte(s), &result); err != nil {
		// Malformed JSON: split on commas.
		result = nil
		s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
		for _, item := range strings.Split(s, ",") {
			item = strings.Trim(strings.TrimSpace(item), `"`)
			if item != "" {
				result = append(result, item)
			}
		}
	}
	return result
}
