package query

import (
	// 外部依赖
	"context"
	"encoding/json"
	"time"

	// 内部引用
	common "github.com/hemolink/bloodlink/pkg/common"
	core "github.com/hemolink/bloodlink/pkg/core/query"
	db "github.com/hemolink/bloodlink/pkg/middleware/db"
	logger "github.com/hemolink/bloodlink/pkg/middleware/logger"
	redis "github.com/hemolink/bloodlink/pkg/middleware/redis"
	model "github.com/hemolink/bloodlink/pkg/model"
	repo "github.com/hemolink/bloodlink/pkg/repo"
	repoDonation "github.com/hemolink/bloodlink/pkg/repo/donation"
	repoFacility "github.com/hemolink/bloodlink/pkg/repo/facility"
	repoInventory "github.com/hemolink/bloodlink/pkg/repo/inventory"
	repoPerson "github.com/hemolink/bloodlink/pkg/repo/person"
	repoRequest "github.com/hemolink/bloodlink/pkg/repo/request"
	utils "github.com/hemolink/bloodlink/pkg/utils"
)

const (
	statsCacheKey = "bloodlink:stats:aggregate"
	statsCacheTTL = 30 * time.Second
)

type queryImpl struct {
	stockStore    repo.InventoryRepo
	personStore   repo.PersonRepo
	requestStore  repo.RequestRepo
	donationStore repo.DonationRepo
	facilityStore repo.FacilityRepo

	now func() time.Time
}

type Option func(*queryImpl)

// WithClock 覆盖当前时间来源，资格窗口测试用
func WithClock(now func() time.Time) Option {
	return func(q *queryImpl) { q.now = now }
}

func New(ds *db.Datastore, opts ...Option) core.Service {
	q := &queryImpl{
		stockStore:    repoInventory.New(ds),
		personStore:   repoPerson.New(ds),
		requestStore:  repoRequest.New(ds),
		donationStore: repoDonation.New(ds),
		facilityStore: repoFacility.New(ds),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

func (s *queryImpl) SearchAvailability(ctx context.Context, req *core.AvailabilityReq) (*common.PageResp[[]*repo.StockLineView], error) {
	req.Normalize()

	list, total, err := s.stockStore.ListAvailability(ctx, repo.AvailabilityQuery{
		BloodGroup:  req.BloodGroup,
		City:        req.City,
		State:       req.State,
		MinQuantity: req.MinQuantity,
		Offset:      req.Offest(),
		Limit:       req.PageSize,
	})
	if err != nil {
		return nil, err
	}

	return &common.PageResp[[]*repo.StockLineView]{
		Data:     list,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

// SearchEligibleDonors 窗口以查询时刻起算：last_donation 为空，
// 或距今已满 EligibilityWindow 的 donor 才会出现在结果里
func (s *queryImpl) SearchEligibleDonors(ctx context.Context, req *core.DonorSearchReq) (*common.PageResp[[]*core.DonorView], error) {
	req.Normalize()

	now := s.now()
	list, total, err := s.personStore.ListEligibleDonors(ctx, repo.DonorQuery{
		BloodGroup:     req.BloodGroup,
		City:           req.City,
		State:          req.State,
		EligibleBefore: now.Add(-core.EligibilityWindow),
		Offset:         req.Offest(),
		Limit:          req.PageSize,
	})
	if err != nil {
		return nil, err
	}

	views := utils.FilterSlice(list, func(p *model.Person) (*core.DonorView, bool) {
		v := &core.DonorView{
			UUID:         p.UUID.String(),
			Name:         p.Name,
			City:         p.City,
			State:        p.State,
			Phone:        p.Phone,
			LastDonation: p.LastDonation,
		}
		if p.BloodGroup != nil {
			v.BloodGroup = *p.BloodGroup
		}
		if p.LastDonation != nil {
			next := p.LastDonation.Add(core.EligibilityWindow)
			v.NextEligibleAt = &next
		}
		return v, true
	})

	return &common.PageResp[[]*core.DonorView]{
		Data:     views,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

// GetAggregateStats 四路统计并发取数，redis 可用时做 30s cache-aside
func (s *queryImpl) GetAggregateStats(ctx context.Context) (*core.StatsResp, error) {
	if cached := s.loadCachedStats(ctx); cached != nil {
		return cached, nil
	}

	stats := &core.StatsResp{GeneratedAt: s.now()}

	err := utils.ParallelRun(
		func() error {
			groups, err := s.stockStore.GroupStats(ctx)
			if err != nil {
				return err
			}
			stats.Inventory = groups
			return nil
		},
		func() error {
			counts, err := s.requestStore.CountRequestsByStatus(ctx)
			if err != nil {
				return err
			}
			stats.Requests = counts
			return nil
		},
		func() error {
			counts, err := s.donationStore.CountDonationsByStatus(ctx)
			if err != nil {
				return err
			}
			stats.Donations = counts
			return nil
		},
		func() error {
			role := common.RoleDonor
			_, total, err := s.personStore.ListPersons(ctx, repo.PersonQuery{Role: &role, Limit: 1})
			if err != nil {
				return err
			}
			stats.TotalDonors = total

			_, banks, err := s.facilityStore.ListBloodBanks(ctx, repo.FacilityQuery{Limit: 1})
			if err != nil {
				return err
			}
			stats.TotalBloodBanks = banks
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	s.storeCachedStats(ctx, stats)
	return stats, nil
}

func (s *queryImpl) loadCachedStats(ctx context.Context) *core.StatsResp {
	client := redis.GetClient()
	if client == nil {
		return nil
	}

	raw, err := client.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		return nil
	}
	stats := &core.StatsResp{}
	if err := json.Unmarshal(raw, stats); err != nil {
		logger.Warnf(ctx, "stats cache decode err: %v", err)
		return nil
	}
	return stats
}

func (s *queryImpl) storeCachedStats(ctx context.Context, stats *core.StatsResp) {
	client := redis.GetClient()
	if client == nil {
		return
	}

	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := client.Set(ctx, statsCacheKey, raw, statsCacheTTL).Err(); err != nil {
		logger.Warnf(ctx, "stats cache store err: %v", err)
	}
}
