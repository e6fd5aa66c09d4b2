// Package seed loads the employee directory from a YAML roster.
package seed

import (
	"bytes"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/integrity-backend/internal/data/repos"
	types "github.com/yungbote/integrity-backend/internal/domain"
	"github.com/yungbote/integrity-backend/internal/domain/user"
	"github.com/yungbote/integrity-backend/internal/platform/dbctx"
)

type Member struct {
	Email       string `yaml:"email"`
	DisplayName string `yaml:"display_name"`
	Department  string `yaml:"department"`
	Category    string `yaml:"category"`
	Avatar      string `yaml:"avatar"`
}

type Roster struct {
	Members []Member `yaml:"members"`
}

var categories = map[string]bool{
	user.CategoryEmployee: true,
	user.CategoryManager:  true,
	user.CategorySupplier: true,
}

// ParseRoster decodes and validates a roster. Unknown fields are rejected; a missing
// category means employee.
func ParseRoster(raw []byte) (*Roster, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	var r Roster
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("decode roster: %w", err)
	}
	seen := make(map[string]bool, len(r.Members))
	for i := range r.Members {
		m := &r.Members[i]
		m.Email = strings.ToLower(strings.TrimSpace(m.Email))
		m.DisplayName = strings.TrimSpace(m.DisplayName)
		m.Category = strings.ToLower(strings.TrimSpace(m.Category))
		if m.Category == "" {
			m.Category = user.CategoryEmployee
		}
		if _, err := mail.ParseAddress(m.Email); err != nil {
			return nil, fmt.Errorf("member %d: bad email %q", i, m.Email)
		}
		if seen[m.Email] {
			return nil, fmt.Errorf("member %d: duplicate email %s", i, m.Email)
		}
		seen[m.Email] = true
		if m.DisplayName == "" {
			return nil, fmt.Errorf("member %d (%s): display_name required", i, m.Email)
		}
		if !categories[m.Category] {
			return nil, fmt.Errorf("member %d (%s): unknown category %q", i, m.Email, m.Category)
		}
	}
	return &r, nil
}

type Result struct {
	Users    int
	Profiles int
}

// Apply upserts the roster into the directory inside dbc's transaction, if any.
// Existing users keep their ids, so progress rows stay attached.
func Apply(dbc dbctx.Context, userRepo repos.UserRepo, profileRepo repos.UserProfileRepo, r *Roster) (Result, error) {
	if len(r.Members) == 0 {
		return Result{}, nil
	}
	users := make([]*types.User, 0, len(r.Members))
	emails := make([]string, 0, len(r.Members))
	for _, m := range r.Members {
		users = append(users, &types.User{
			Email:       m.Email,
			DisplayName: m.DisplayName,
			Department:  m.Department,
			Category:    m.Category,
		})
		emails = append(emails, m.Email)
	}
	if err := userRepo.UpsertByEmail(dbc, users); err != nil {
		return Result{}, fmt.Errorf("upsert users: %w", err)
	}

	stored, err := userRepo.GetByEmails(dbc, emails)
	if err != nil {
		return Result{}, fmt.Errorf("reload users: %w", err)
	}
	byEmail := make(map[string]*types.User, len(stored))
	for _, u := range stored {
		byEmail[u.Email] = u
	}

	res := Result{Users: len(stored)}
	now := time.Now().UTC()
	for _, m := range r.Members {
		if m.Avatar == "" {
			continue
		}
		u, ok := byEmail[m.Email]
		if !ok {
			return res, fmt.Errorf("user %s missing after upsert", m.Email)
		}
		if err := profileRepo.Upsert(dbc, &types.UserProfile{UserID: u.ID, AvatarURL: m.Avatar, CreatedAt: now, UpdatedAt: now}); err != nil {
			return res, fmt.Errorf("profile %s: %w", m.Email, err)
		}
		res.Profiles++
	}
	return res, nil
}
