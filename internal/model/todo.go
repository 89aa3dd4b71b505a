// Package model はドメインモデルを定義する。
package model

import "time"

// Todo はユーザーが所有するTodo項目を表す。
// OwnerIDは作成時に確定し、以後変更されない。
type Todo struct {
	ID          string
	Title       string
	Description string
	Completed   bool
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
