package postgres

import (
	"fmt"
	"strings"

	"postdesk/internal/domain/models"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildPostWhere renders filter as a WHERE clause over the posts alias "p".
// Placeholders start at $1; the returned args line up with them.
func buildPostWhere(filter *models.PostFilter) (string, []interface{}) {
	if filter == nil {
		return "", nil
	}

	var conditions []string
	var args []interface{}

	add := func(format string, arg interface{}) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(format, len(args)))
	}

	if filter.Status != "" {
		add("p.status = $%d", string(filter.Status))
	}
	if filter.ClusterID != "" {
		add("p.cluster_id = $%d", filter.ClusterID)
	}
	if filter.AuthorID != "" {
		add("p.author_id = $%d", filter.AuthorID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+likeEscaper.Replace(search)+"%")
		n := len(args)
		conditions = append(conditions,
			fmt.Sprintf("(p.title ILIKE $%d OR p.primary_keyword ILIKE $%d OR p.slug ILIKE $%d)", n, n, n))
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}
