// Package auth 定义显式传递的调用者身份。
// 签名校验由上游网关完成，这里只消费校验后的钱包地址。
package auth

import (
	"github.com/blues/mintpad/pkg/validation"
)

// SystemActor 定时任务等内部调用者
const SystemActor = "system"

// Context 调用者身份
type Context struct {
	Address string
	IsAdmin bool
}

// System 内部任务身份，拥有管理员权限
func System() Context {
	return Context{Address: SystemActor, IsAdmin: true}
}

// Anonymous 是否未携带钱包地址
func (c Context) Anonymous() bool {
	return c.Address == ""
}

// IsOwner 是否为 owner 本人
func (c Context) IsOwner(owner string) bool {
	if c.Anonymous() {
		return false
	}
	return validation.NormalizeAddress(owner) == validation.NormalizeAddress(c.Address)
}

// CanManage 是否可以管理 owner 名下的资源
func (c Context) CanManage(owner string) bool {
	return c.IsAdmin || c.IsOwner(owner)
}

// Resolver 根据已校验的钱包地址构造身份
type Resolver struct {
	admins map[string]struct{}
}

// NewResolver 创建身份解析器
func NewResolver(adminWallets []string) *Resolver {
	admins := make(map[string]struct{}, len(adminWallets))
	for _, w := range adminWallets {
		if w = validation.NormalizeAddress(w); w != "" {
			admins[w] = struct{}{}
		}
	}
	return &Resolver{admins: admins}
}

// Resolve 构造身份，空地址返回匿名身份
func (r *Resolver) Resolve(address string) Context {
	address = validation.NormalizeAddress(address)
	if address == "" {
		return Context{}
	}
	_, admin := r.admins[address]
	return Context{Address: address, IsAdmin: admin}
}
