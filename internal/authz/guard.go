// Package authz は「リソースの所有者のみ変更できる」という認可規則を提供する。
//
// 変更系操作の検査順序は常に 存在確認 → 認証 → 所有 とする。
// 存在確認は呼び出し元がリポジトリの検索結果（nil）で行い、
// 残り2段をRequireOwnerが担う。存在しないリソースに対しては
// 所有比較が成立しないため、この順序を入れ替えてはならない。
package authz

import "github.com/tommy2k0/blog-app/internal/model"

// Owned は著者IDを持つリソースを表す。
// 記事・コメントのように単一の所有者を持つ全エンティティが実装する。
type Owned interface {
	OwnerID() string
}

// RequireUser はリクエストが認証済みであることを要求する。
// 匿名（userがnil）の場合はUNAUTHENTICATEDエラーを返す。
func RequireUser(user *model.User) error {
	if user == nil {
		return model.NewUnauthenticatedError()
	}
	return nil
}

// RequireOwner はリクエストユーザーがリソースの所有者であることを要求する。
// 認証の検査を所有の検査より先に行う。匿名ならUNAUTHENTICATED、
// 認証済みでも所有者でなければFORBIDDENを返す。
func RequireOwner(resource Owned, user *model.User) error {
	if err := RequireUser(user); err != nil {
		return err
	}
	if resource.OwnerID() != user.ID {
		return model.NewForbiddenError()
	}
	return nil
}
