package game

import "strings"

// Role 是角色牌的身份，数值即本轮的行动优先级
type Role int

const (
	RoleNone Role = iota - 1

	RoleBuilder
	RoleCondottiere
	RoleKing
	RoleMagician
	RoleMerchant
	RoleMurderer
	RolePreacher
	RoleThief
)

// 角色总数固定为 8
const RoleCount = 8

var roleNames = [RoleCount]string{
	"Builder",
	"Condottiere",
	"King",
	"Magician",
	"Merchant",
	"Murderer",
	"Preacher",
	"Thief",
}

func (r Role) String() string {
	if !r.Valid() {
		return "None"
	}

	return roleNames[r]
}

func (r Role) Valid() bool {
	return r >= RoleBuilder && r <= RoleThief
}

// ParseRole 忽略大小写和首尾空白匹配角色名
func ParseRole(name string) (Role, bool) {
	name = strings.TrimSpace(name)
	for i, n := range roleNames {
		if strings.EqualFold(n, name) {
			return Role(i), true
		}
	}

	return RoleNone, false
}

// AllRoles 按优先级返回全部角色
func AllRoles() []Role {
	roles := make([]Role, 0, RoleCount)
	for r := RoleBuilder; r <= RoleThief; r++ {
		roles = append(roles, r)
	}

	return roles
}

// CharacterCard 是玩家在一轮中持有的角色牌，每轮重新创建
type CharacterCard struct {
	Role        Role
	AbilityUsed bool
}

func NewCharacterCard(role Role) *CharacterCard {
	return &CharacterCard{Role: role}
}
