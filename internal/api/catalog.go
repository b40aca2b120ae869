package api

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"project30/internal/model"
)

// Courses lists every course.
func (c *Client) Courses(ctx context.Context) ([]model.Course, error) {
	const cacheKey = "courses"
	var wrap struct {
		Courses []model.Course `json:"courses"`
	}

	if c.readCache(ctx, cacheKey, &wrap) {
		return wrap.Courses, nil
	}
	if err := c.doGet(ctx, "courses", nil, &wrap); err != nil {
		return nil, fmt.Errorf("courses: %w", err)
	}
	c.writeCache(ctx, cacheKey, wrap)
	return wrap.Courses, nil
}

// Professors lists every professor.
func (c *Client) Professors(ctx context.Context) ([]model.Professor, error) {
	const cacheKey = "professors"
	var wrap struct {
		Professors []model.Professor `json:"professors"`
	}

	if c.readCache(ctx, cacheKey, &wrap) {
		return wrap.Professors, nil
	}
	if err := c.doGet(ctx, "professors", nil, &wrap); err != nil {
		return nil, fmt.Errorf("professors: %w", err)
	}
	c.writeCache(ctx, cacheKey, wrap)
	return wrap.Professors, nil
}

// Roster returns, per course id, the professors teaching it.
func (c *Client) Roster(ctx context.Context, courseIDs []string) (model.Roster, error) {
	if len(courseIDs) == 0 {
		return model.Roster{}, nil
	}
	ids := append([]string(nil), courseIDs...)
	sort.Strings(ids)
	cacheKey := "roster:" + strings.Join(ids, ",")

	var wrap struct {
		Professors model.Roster `json:"professors"`
	}
	if c.readCache(ctx, cacheKey, &wrap) {
		return wrap.Professors, nil
	}

	query := url.Values{"ids": ids}
	if err := c.doGet(ctx, "courses/professors", query, &wrap); err != nil {
		return nil, fmt.Errorf("roster: %w", err)
	}
	if wrap.Professors == nil {
		wrap.Professors = model.Roster{}
	}
	c.writeCache(ctx, cacheKey, wrap)
	return wrap.Professors, nil
}

// InvalidateCache drops every cached reference entry.
func (c *Client) InvalidateCache(ctx context.Context) {
	c.dropCache(ctx)
}
