package models

// User 用户账号
// 访客账号没有用户名和密码，仅凭UID标识
type User struct {
	BaseModel
	UID      string `gorm:"uniqueIndex;size:64;not null" json:"uid"` // 稳定主体ID
	Username string `gorm:"index;size:64" json:"username"`           // 登录用户名（访客为空，注册时由服务层查重）
	Nickname string `gorm:"size:64" json:"nickname"`                 // 显示名称
	Password string `gorm:"size:128" json:"-"`                       // argon2id哈希
	IsGuest  bool   `gorm:"default:false" json:"is_guest"`           // 是否为访客账号
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
