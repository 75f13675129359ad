package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sakif/sportshub/internal/apperror"
	"github.com/sakif/sportshub/internal/model"
)

const userColumns = `id, username, email, password, role, favorite_sport, favorite_team, created_at`

func (s *Store) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return s.getUser(ctx, s.db, `SELECT `+userColumns+` FROM users WHERE id = ?`, id, id)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.getUser(ctx, s.db, `SELECT `+userColumns+` FROM users WHERE LOWER(username) = LOWER(?)`, username, username)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.getUser(ctx, s.db, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER(?)`, email, email)
}

func (s *Store) getUser(ctx context.Context, q sqlx.QueryerContext, query string, arg, label any) (*model.User, error) {
	var u model.User
	err := sqlx.GetContext(ctx, q, &u, s.q(query), arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("user", label)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlstore: getting user: %w", err)
	}
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	users := []model.User{}
	err := s.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: listing users: %w", err)
	}
	return users, nil
}

func (s *Store) CreateUser(ctx context.Context, u model.User) (*model.User, error) {
	if u.Role == "" {
		u.Role = model.RoleUser
	}
	u.CreatedAt = s.now()

	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.checkIdentity(ctx, tx, 0, u.Username, u.Email); err != nil {
			return err
		}
		return tx.QueryRowxContext(ctx, s.q(`
			INSERT INTO users (username, email, password, role, favorite_sport, favorite_team, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			RETURNING id`),
			u.Username, u.Email, u.Password, u.Role, u.FavoriteSport, u.FavoriteTeam, u.CreatedAt,
		).Scan(&u.ID)
	})
	if err != nil {
		return nil, userWriteError("creating", err)
	}
	return &u, nil
}

func (s *Store) UpdateUser(ctx context.Context, id int64, patch model.UserPatch) (*model.User, error) {
	var u *model.User
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		u, err = s.getUser(ctx, tx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id, id)
		if err != nil {
			return err
		}

		patch.Apply(u)
		if err := s.checkIdentity(ctx, tx, id, u.Username, u.Email); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, s.q(`
			UPDATE users
			SET username = ?, email = ?, password = ?, role = ?, favorite_sport = ?, favorite_team = ?
			WHERE id = ?`),
			u.Username, u.Email, u.Password, u.Role, u.FavoriteSport, u.FavoriteTeam, id,
		)
		return err
	})
	if err != nil {
		return nil, userWriteError("updating", err)
	}
	return u, nil
}

// DeleteUser spells out the cascade instead of relying on ON DELETE so the
// behavior does not depend on foreign key enforcement being enabled.
func (s *Store) DeleteUser(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, stmt := range []string{
			`DELETE FROM favorites WHERE user_id = ?`,
			`DELETE FROM notifications WHERE user_id = ?`,
			`UPDATE feedback SET user_id = NULL WHERE user_id = ?`,
		} {
			if _, err := tx.ExecContext(ctx, s.q(stmt), id); err != nil {
				return err
			}
		}
		res, err := tx.ExecContext(ctx, s.q(`DELETE FROM users WHERE id = ?`), id)
		if err != nil {
			return err
		}
		deleted, err = affected(res)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("sqlstore: deleting user %d: %w", id, err)
	}
	return deleted, nil
}

// checkIdentity mirrors the memory store: email collisions are reported
// before username collisions.
func (s *Store) checkIdentity(ctx context.Context, q sqlx.QueryerContext, self int64, username, email string) error {
	var others []model.User
	err := sqlx.SelectContext(ctx, q, &others, s.q(`
		SELECT `+userColumns+` FROM users
		WHERE id <> ? AND (LOWER(email) = LOWER(?) OR LOWER(username) = LOWER(?))`),
		self, email, username,
	)
	if err != nil {
		return fmt.Errorf("sqlstore: checking identity: %w", err)
	}
	for _, o := range others {
		if model.SameIdentity(o.Email, email) {
			return apperror.Conflict("email", "Email already in use")
		}
	}
	if len(others) > 0 {
		return apperror.Conflict("username", "Username already taken")
	}
	return nil
}

func userWriteError(op string, err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if isUniqueViolation(err) {
		return apperror.Conflict("username", "Username or email already in use")
	}
	return fmt.Errorf("sqlstore: %s user: %w", op, err)
}
