package postgres

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sudo-init-do/skillmarket/internal/apierr"
	"github.com/sudo-init-do/skillmarket/internal/model"
	"github.com/sudo-init-do/skillmarket/internal/mutation"
)

type userStore struct{ pool *pgxpool.Pool }

var userScalarCols = map[string]column{
	"username":         {name: "username"},
	"email":            {name: "email"},
	"phoneNumber":      {name: "phone_number"},
	"firstName":        {name: "first_name"},
	"lastName":         {name: "last_name"},
	"profilePicture":   {name: "profile_picture"},
	"bio":              {name: "bio"},
	"location":         {name: "location"},
	"socialMediaLinks": {name: "social_media_links", jsonb: true},
	"role":             {name: "role"},
}

var userSeqCols = map[string]string{
	"skills":    "skills",
	"portfolio": "portfolio",
}

const userCols = `id, username, email, password_hash, phone_number, first_name,
	last_name, profile_picture, bio, location, social_media_links, role,
	skills, portfolio, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var (
		u         model.User
		role      string
		links     []byte
		skills    []byte
		portfolio []byte
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.PhoneNumber,
		&u.FirstName, &u.LastName, &u.ProfilePicture, &u.Bio, &u.Location,
		&links, &role, &skills, &portfolio, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.Role = model.Role(role)
	if err := json.Unmarshal(links, &u.SocialMediaLinks); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(skills, &u.Skills); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(portfolio, &u.Portfolio); err != nil {
		return nil, err
	}
	return &u, nil
}

func (us *userStore) Create(ctx context.Context, u *model.User) error {
	links, _ := json.Marshal(u.SocialMediaLinks)
	skills, _ := json.Marshal(u.Skills)
	portfolio, _ := json.Marshal(u.Portfolio)
	_, err := us.pool.Exec(ctx, `
		INSERT INTO users (id, username, email, password_hash, phone_number,
			first_name, last_name, profile_picture, bio, location,
			social_media_links, role, skills, portfolio, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $15)`,
		u.ID, u.Username, strings.ToLower(u.Email), u.PasswordHash, u.PhoneNumber,
		u.FirstName, u.LastName, u.ProfilePicture, u.Bio, u.Location,
		string(links), string(u.Role), string(skills), string(portfolio), u.CreatedAt)
	return mapErr(err, "user not found")
}

func (us *userStore) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	row := us.pool.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, mapErr(err, "user not found")
	}
	return u, nil
}

func (us *userStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	row := us.pool.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE email = $1`, strings.ToLower(email))
	u, err := scanUser(row)
	if err != nil {
		return nil, mapErr(err, "user not found")
	}
	return u, nil
}

func (us *userStore) List(ctx context.Context) ([]model.User, error) {
	rows, err := us.pool.Query(ctx, `SELECT `+userCols+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, mapErr(err, "user not found")
	}
	defer rows.Close()
	out := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, apierr.Internal(err)
		}
		out = append(out, *u)
	}
	return out, mapErr(rows.Err(), "user not found")
}

func (us *userStore) Update(ctx context.Context, id uuid.UUID, plan mutation.Plan) (*model.User, error) {
	if v, ok := plan.Scalars["email"]; ok {
		if s, ok := v.(string); ok {
			plan.Scalars["email"] = strings.ToLower(s)
		}
	}
	query, args, err := buildUpdate("users", userScalarCols, userSeqCols, plan, userCols)
	if err != nil {
		return nil, err
	}
	row := us.pool.QueryRow(ctx, query, append(args, id)...)
	u, err := scanUser(row)
	if err != nil {
		return nil, mapErr(err, "user not found")
	}
	return u, nil
}
