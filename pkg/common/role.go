package common

// Role 平台账号角色
type Role string

const (
	RoleDonor     Role = "DONOR"
	RoleHospital  Role = "HOSPITAL"
	RoleBloodBank Role = "BLOOD_BANK"
	RoleNGO       Role = "NGO"
	RoleAdmin     Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleDonor, RoleHospital, RoleBloodBank, RoleNGO, RoleAdmin:
		return true
	}
	return false
}

// BloodGroup ABO/Rh 血型
type BloodGroup string

const (
	APositive  BloodGroup = "A_POSITIVE"
	ANegative  BloodGroup = "A_NEGATIVE"
	BPositive  BloodGroup = "B_POSITIVE"
	BNegative  BloodGroup = "B_NEGATIVE"
	ABPositive BloodGroup = "AB_POSITIVE"
	ABNegative BloodGroup = "AB_NEGATIVE"
	OPositive  BloodGroup = "O_POSITIVE"
	ONegative  BloodGroup = "O_NEGATIVE"
)

// AllBloodGroups 按固定顺序列出全部血型，统计与种子数据共用
var AllBloodGroups = []BloodGroup{
	APositive, ANegative,
	BPositive, BNegative,
	ABPositive, ABNegative,
	OPositive, ONegative,
}

func (g BloodGroup) Valid() bool {
	for _, v := range AllBloodGroups {
		if g == v {
			return true
		}
	}
	return false
}
