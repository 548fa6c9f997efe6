// Package model はドメインモデルを定義する。
package model

import "time"

// Post はブログ記事を表す。ちょうど1人のユーザーが所有する。
// 記事を削除すると、紐づくコメントもCASCADE削除される。
type Post struct {
	ID        string
	Title     string
	Content   string
	AuthorID  string
	CreatedAt time.Time
}

// OwnerID は記事の所有者（著者）のユーザーIDを返す。
func (p *Post) OwnerID() string {
	return p.AuthorID
}

// Comment は記事へのコメントを表す。
// ちょうど1つの記事とちょうど1人のユーザーに属する。
type Comment struct {
	ID        string
	Content   string
	PostID    string
	AuthorID  string
	CreatedAt time.Time
}

// OwnerID はコメントの所有者（投稿者）のユーザーIDを返す。
func (c *Comment) OwnerID() string {
	return c.AuthorID
}
