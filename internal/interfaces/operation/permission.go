// Package operation
package operation

type Permission int64

// 权限节点上限是64, 超过64需要使用切片
const (
	AdminEntry Permission = 1 << iota
	UserShowList
	UserAdd
	EventCreate
	EventEditMember
	FlightShowList
	FlightUpload
	FlightEditStatus
	AuditLogShow
)

const AllPermissions = AuditLogShow<<1 - 1

var PermissionMap = map[string]Permission{
	"AdminEntry":       AdminEntry,
	"UserShowList":     UserShowList,
	"UserAdd":          UserAdd,
	"EventCreate":      EventCreate,
	"EventEditMember":  EventEditMember,
	"FlightShowList":   FlightShowList,
	"FlightUpload":     FlightUpload,
	"FlightEditStatus": FlightEditStatus,
	"AuditLogShow":     AuditLogShow,
}

func (p *Permission) IsValid() bool {
	return *p >= 0 && *p <= AllPermissions
}

func (p *Permission) HasPermission(perm Permission) bool {
	return *p&perm != 0
}

func (p *Permission) Grant(perm Permission) {
	*p |= perm
}

func (p *Permission) Revoke(perm Permission) {
	*p &^= perm
}
