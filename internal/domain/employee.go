package domain

import (
	"slices"
	"time"
)

type Role string

const (
	RoleEmployee Role = "普通员工"
	RoleManager  Role = "门店经理"
	RoleAdmin    Role = "系统管理员"
)

type Employee struct {
	ID              int64  `json:"id"`
	Username        string `json:"username"`
	PasswordHash    string `json:"-"`
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Role            Role   `json:"role"`
	PositionID      int64  `json:"positionID"`
	PreferredDayOff *int32 `json:"preferredDayOff"` // ISO 星期几（1 = 周一），为空表示没有偏好休息日
	IsActive        bool   `json:"isActive"`

	// 关联关系一律通过 id 集合表示，禁止在实体之间互相嵌指针
	CompanyIDs            []int64 `json:"companyIDs"`
	LocationIDs           []int64 `json:"locationIDs"`
	LanguageIDs           []int64 `json:"languageIDs"`
	PreferredBlueprintIDs []int64 `json:"preferredBlueprintIDs"`

	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

func (e *Employee) BelongsToCompany(companyID int64) bool {
	return slices.Contains(e.CompanyIDs, companyID)
}

func (e *Employee) WorksAtLocation(locationID int64) bool {
	return slices.Contains(e.LocationIDs, locationID)
}

func (e *Employee) Speaks(languageID int64) bool {
	return slices.Contains(e.LanguageIDs, languageID)
}

func (e *Employee) PrefersBlueprint(blueprintID int64) bool {
	return slices.Contains(e.PreferredBlueprintIDs, blueprintID)
}
