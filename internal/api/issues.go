package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/radieske/yegame-client/internal/api/dto"
)

type Issues struct {
	http Doer
}

func NewIssues(d Doer) *Issues { return &Issues{http: d} }

func (s *Issues) GetAll(ctx context.Context) (*dto.IssuesResponse, error) {
	var out dto.IssuesResponse
	if err := s.http.Do(ctx, http.MethodGet, "/issues", "/issues", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Issues) Get(ctx context.Context, id int64) (*dto.IssueResponse, error) {
	var out dto.IssueResponse
	if err := s.http.Do(ctx, http.MethodGet, "/issues/{id}", issuePath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Issues) Create(ctx context.Context, in dto.IssueInput) (*dto.Issue, error) {
	var out dto.Issue
	if err := s.http.Do(ctx, http.MethodPost, "/issues", "/issues", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Issues) Update(ctx context.Context, id int64, in dto.IssueInput) (*dto.Issue, error) {
	var out dto.Issue
	if err := s.http.Do(ctx, http.MethodPut, "/issues/{id}", issuePath(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete só reporta o status
func (s *Issues) Delete(ctx context.Context, id int64) error {
	return s.http.Do(ctx, http.MethodDelete, "/issues/{id}", issuePath(id), nil, nil)
}

func (s *Issues) TogglePopular(ctx context.Context, id int64) (*dto.Issue, error) {
	var out dto.Issue
	path := issuePath(id) + "/toggle-popular"
	if err := s.http.Do(ctx, http.MethodPatch, "/issues/{id}/toggle-popular", path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func issuePath(id int64) string { return fmt.Sprintf("/issues/%d", id) }
