package repo

import (
	// 外部依赖
	"context"
	"time"

	// 内部引用
	common "github.com/hemolink/bloodlink/pkg/common"
	uuid "github.com/hemolink/bloodlink/pkg/common/uuid"
	model "github.com/hemolink/bloodlink/pkg/model"
)

// DonorQuery 可献血donor检索：role=DONOR、active、verified，
// last_donation 为空或早于给定截止时间
type DonorQuery struct {
	BloodGroup *common.BloodGroup
	City       *string
	State      *string
	// EligibleBefore last_donation <= 该时间（或为空）才可献血
	EligibleBefore time.Time
	Offset         int
	Limit          int
}

type PersonQuery struct {
	Role   *common.Role
	City   *string
	Offset int
	Limit  int
}

type PersonRepo interface {
	BaseDB

	CreatePerson(ctx context.Context, data *model.Person) error
	GetPersonByUUID(ctx context.Context, id uuid.UUID) (*model.Person, error)
	GetPersonByID(ctx context.Context, id int64) (*model.Person, error)
	ListPersons(ctx context.Context, q PersonQuery) ([]*model.Person, int64, error)
	// ListEligibleDonors 按 last_donation asc NULLS FIRST, id asc 排序
	ListEligibleDonors(ctx context.Context, q DonorQuery) ([]*model.Person, int64, error)
	// TouchLastDonation 单调推进 last_donation，早于当前值的写入被忽略
	TouchLastDonation(ctx context.Context, id int64, donatedAt time.Time) error
}
