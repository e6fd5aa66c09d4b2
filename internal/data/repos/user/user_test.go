package user

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/integrity-backend/internal/data/repos/testutil"
	types "github.com/yungbote/integrity-backend/internal/domain"
	domainuser "github.com/yungbote/integrity-backend/internal/domain/user"
	"github.com/yungbote/integrity-backend/internal/platform/dbctx"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	created, err := repo.Create(dbc, []*types.User{
		{Email: "userrepo-a@example.com", DisplayName: "Ana", Category: domainuser.CategoryEmployee},
		{Email: "userrepo-b@example.com", DisplayName: "Bruno", Category: domainuser.CategoryManager},
		{Email: "userrepo-c@example.com", DisplayName: "Acme Ltd", Category: domainuser.CategorySupplier},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 3 || created[0].ID == uuid.Nil {
		t.Fatalf("Create: unexpected result: %+v", created)
	}

	gotByIDs, err := repo.GetByIDs(dbc, []uuid.UUID{created[0].ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(gotByIDs) != 1 || gotByIDs[0].ID != created[0].ID {
		t.Fatalf("GetByIDs: unexpected result: %+v", gotByIDs)
	}

	gotByEmails, err := repo.GetByEmails(dbc, []string{"userrepo-b@example.com"})
	if err != nil {
		t.Fatalf("GetByEmails: %v", err)
	}
	if len(gotByEmails) != 1 || gotByEmails[0].DisplayName != "Bruno" {
		t.Fatalf("GetByEmails: unexpected result: %+v", gotByEmails)
	}

	roster, err := repo.ListExcludingCategories(dbc, []string{domainuser.CategorySupplier})
	if err != nil {
		t.Fatalf("ListExcludingCategories: %v", err)
	}
	for _, u := range roster {
		if u.Category == domainuser.CategorySupplier {
			t.Fatalf("ListExcludingCategories: supplier %q leaked into roster", u.DisplayName)
		}
	}
	if len(roster) < 2 {
		t.Fatalf("ListExcludingCategories: expected employees and managers, got %d", len(roster))
	}
}

func TestUserRepoUpsertByEmail(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	first := &types.User{Email: "upsert@example.com", DisplayName: "Old Name", Category: domainuser.CategoryEmployee}
	if err := repo.UpsertByEmail(dbc, []*types.User{first}); err != nil {
		t.Fatalf("UpsertByEmail insert: %v", err)
	}
	second := &types.User{Email: "upsert@example.com", DisplayName: "New Name", Category: domainuser.CategoryManager}
	if err := repo.UpsertByEmail(dbc, []*types.User{second}); err != nil {
		t.Fatalf("UpsertByEmail update: %v", err)
	}

	rows, err := repo.GetByEmails(dbc, []string{"upsert@example.com"})
	if err != nil || len(rows) != 1 {
		t.Fatalf("GetByEmails: err=%v len=%d", err, len(rows))
	}
	if rows[0].ID != first.ID || rows[0].DisplayName != "New Name" || rows[0].Category != domainuser.CategoryManager {
		t.Fatalf("UpsertByEmail: unexpected row %+v", rows[0])
	}
}

func TestUserProfileRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	repo := NewUserProfileRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	u := testutil.SeedUser(t, ctx, tx, "Carla", "")

	got, err := repo.GetByUserID(dbc, u.ID)
	if err != nil || got != nil {
		t.Fatalf("GetByUserID before upsert: got=%+v err=%v", got, err)
	}

	if err := repo.Upsert(dbc, &types.UserProfile{UserID: u.ID, AvatarURL: "avatars/carla.png"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := repo.Upsert(dbc, &types.UserProfile{UserID: u.ID, AvatarURL: "avatars/carla-2.png"}); err != nil {
		t.Fatalf("Upsert again: %v", err)
	}
	got, err = repo.GetByUserID(dbc, u.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByUserID: got=%+v err=%v", got, err)
	}
	if got.AvatarURL != "avatars/carla-2.png" {
		t.Fatalf("AvatarURL: want=avatars/carla-2.png got=%q", got.AvatarURL)
	}
}
