package blogcore

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is an ordinary identity. Credential hash, token list, and profile
// picture are never serialized into responses, regardless of caller role.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserName      string     `bun:"user_name,notnull" json:"userName,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	Age           *int       `bun:"age" json:"age,omitempty"`
	Phone         string     `bun:"phone" json:"phone,omitempty"`
	Blocked       bool       `bun:"blocked,notnull,default:false" json:"blocked"`
	Tokens        []string   `bun:"tokens,type:jsonb" json:"-"`
	ProfilePic    []byte     `bun:"profile_pic" json:"-"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt,omitempty"`
}

func (u *User) IdentityID() uuid.UUID { return u.ID }
func (u *User) DisplayName() string { return u.UserName }
func (u *User) IdentityRole() Role { return RoleUser }
func (u *User) SessionTokens() []string { return u.Tokens }
func (u *User) SetSessionTokens(t []string) { u.Tokens = t }

// Admin is a moderation identity. Admins have no blocked flag; the mere
// existence of an Admin record with a matching id authorizes moderation.
type Admin struct {
	bun.BaseModel `bun:"table:admins,alias:adm"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserName      string     `bun:"user_name,notnull,unique" json:"userName,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	Tokens        []string   `bun:"tokens,type:jsonb" json:"-"`
	ProfilePic    []byte     `bun:"profile_pic" json:"-"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt,omitempty"`
}

func (a *Admin) IdentityID() uuid.UUID { return a.ID }
func (a *Admin) DisplayName() string { return a.UserName }
func (a *Admin) IdentityRole() Role { return RoleAdmin }
func (a *Admin) SessionTokens() []string { return a.Tokens }
func (a *Admin) SetSessionTokens(t []string) { a.Tokens = t }

var (
	_ Identity = (*User)(nil)
	_ Identity = (*Admin)(nil)
)

// Like is an append-only entry nested inside a Blog or Comment. Status is
// always true when present; there is no unlike path and a repeat like by the
// same actor appends a second entry.
type Like struct {
	Status    bool      `json:"status"`
	ActorID   uuid.UUID `json:"actorId"`
	ActorName string    `json:"actorName"`
	CreatedAt time.Time `json:"createdAt"`
}

// Reply is nested inside a Comment. The actor name is a snapshot taken at
// creation time and drifts from later identity renames.
type Reply struct {
	Text      string    `json:"text"`
	ActorID   uuid.UUID `json:"actorId"`
	ActorName string    `json:"actorName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Blog owns its Like list exclusively. Comments hang off it by foreign
// reference and are derived, never embedded.
type Blog struct {
	bun.BaseModel `bun:"table:blogs,alias:blg"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Content       string     `bun:"content,notnull" json:"content,omitempty"`
	AuthorID      uuid.UUID  `bun:"author_id,notnull,type:uuid" json:"authorId,omitempty"`
	AuthorName    string     `bun:"author_name,notnull" json:"authorName,omitempty"`
	Image         []byte     `bun:"image" json:"-"`
	Likes         []Like     `bun:"likes,type:jsonb" json:"likes,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt,omitempty"`
}

// LikeList implements Likeable.
func (b *Blog) LikeList() []Like { return b.Likes }

// Comment belongs to exactly one Blog and owns its Reply and Like lists.
type Comment struct {
	bun.BaseModel `bun:"table:comments,alias:cmt"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Comment       string     `bun:"comment,notnull" json:"comment,omitempty"`
	BlogID        uuid.UUID  `bun:"blog_id,notnull,type:uuid" json:"blogId,omitempty"`
	AuthorID      uuid.UUID  `bun:"author_id,notnull,type:uuid" json:"authorId,omitempty"`
	AuthorName    string     `bun:"author_name,notnull" json:"authorName,omitempty"`
	Replies       []Reply    `bun:"replies,type:jsonb" json:"replies,omitempty"`
	Likes         []Like     `bun:"likes,type:jsonb" json:"likes,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt,omitempty"`
}

// LikeList implements Likeable.
func (c *Comment) LikeList() []Like { return c.Likes }

// Likeable is anything that carries an embedded Like list.
type Likeable interface {
	LikeList() []Like
}

// ActorLikeIndexNotFound is the sentinel for "this actor never liked the
// entity".
const ActorLikeIndexNotFound = -1

// ActorLikeIndex scans the entity's Like list and returns the position of the
// first Like authored by actorID, or ActorLikeIndexNotFound. It is used to
// derive the "liked by current actor" flag; it deliberately does not guard
// AddLike against duplicates.
func ActorLikeIndex(entity Likeable, actorID uuid.UUID) int {
	for i, like := range entity.LikeList() {
		if like.ActorID == actorID {
			return i
		}
	}
	return ActorLikeIndexNotFound
}
