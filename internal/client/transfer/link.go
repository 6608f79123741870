package transfer

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/sealdrop/internal/common"
)

// ShareLink builds a link for one blob (?blobId=) or a batch (?blobIds=a,b).
// base may be empty, producing just the query.
func ShareLink(base string, blobIDs ...string) (string, error) {
	if len(blobIDs) == 0 {
		return "", fmt.Errorf("%w: no blob ids", common.ErrValidation)
	}
	for _, id := range blobIDs {
		if id == "" || strings.Contains(id, ",") {
			return "", fmt.Errorf("%w: invalid blob id %q", common.ErrValidation, id)
		}
	}

	q := url.Values{}
	if len(blobIDs) == 1 {
		q.Set("blobId", blobIDs[0])
	} else {
		q.Set("blobIds", strings.Join(blobIDs, ","))
	}
	// Commas stay readable in batch links.
	query := strings.ReplaceAll(q.Encode(), "%2C", ",")

	base = strings.TrimSuffix(base, "?")
	if strings.Contains(base, "?") {
		return base + "&" + query, nil
	}
	return base + "?" + query, nil
}

// ParseShareLink extracts blob ids from a share link. A string without a
// query is taken as a bare blob id.
func ParseShareLink(link string) ([]string, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return nil, fmt.Errorf("%w: empty link", common.ErrValidation)
	}
	i := strings.IndexByte(link, '?')
	if i < 0 {
		if strings.ContainsAny(link, "/=&") {
			return nil, fmt.Errorf("%w: link carries no blob id", common.ErrValidation)
		}
		return []string{link}, nil
	}

	q, err := url.ParseQuery(link[i+1:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	if batch := q.Get("blobIds"); batch != "" {
		var ids []string
		for _, id := range strings.Split(batch, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
		if len(ids) > 0 {
			return ids, nil
		}
	}
	if id := strings.TrimSpace(q.Get("blobId")); id != "" {
		return []string{id}, nil
	}
	return nil, fmt.Errorf("%w: link carries no blob id", common.ErrValidation)
}
