package model

// Principal はリクエストを出した本人。
// 暗黙のグローバルにせず、各usecaseへ明示的に渡す。
type Principal struct {
	UserID      int64
	Username    string
	IsSuperuser bool
	Groups      []GroupName
}

// InGroup は指定グループに所属しているか。
func (p Principal) InGroup(name GroupName) bool {
	for _, g := range p.Groups {
		if g == name {
			return true
		}
	}
	return false
}

func (p Principal) IsManager() bool {
	return p.InGroup(GroupManagers)
}

func (p Principal) IsDeliveryCrew() bool {
	return p.InGroup(GroupDeliveryCrew)
}
