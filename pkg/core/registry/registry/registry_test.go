package registry

import (
	// 外部依赖
	"context"
	"testing"

	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"

	// 内部引用
	testenv "github.com/hemolink/bloodlink/internal/testenv"
	common "github.com/hemolink/bloodlink/pkg/common"
	code "github.com/hemolink/bloodlink/pkg/common/code"
	core "github.com/hemolink/bloodlink/pkg/core/registry"
)

func TestRegisterPerson(t *testing.T) {
	ctx := context.Background()
	ds := testenv.NewDatastore(t)
	svc := New(ds)
	group := common.OPositive

	t.Run("donor registration", func(t *testing.T) {
		person, err := svc.RegisterPerson(ctx, &core.RegisterPersonReq{
			Name:       "Jamie",
			Email:      "jamie@test.local",
			Phone:      "+1-555-1000",
			Role:       common.RoleDonor,
			BloodGroup: &group,
			City:       "Springfield",
		})
		require.NoError(t, err)
		assert.True(t, person.IsActive)
		assert.False(t, person.IsVerified)
		assert.Nil(t, person.LastDonation)
	})

	t.Run("duplicate email is refused", func(t *testing.T) {
		_, err := svc.RegisterPerson(ctx, &core.RegisterPersonReq{
			Name:       "Jamie Again",
			Email:      "jamie@test.local",
			Phone:      "+1-555-1001",
			Role:       common.RoleDonor,
			BloodGroup: &group,
		})
		require.ErrorIs(t, err, code.DuplicateRecord)
	})

	t.Run("donor without blood group is refused", func(t *testing.T) {
		_, err := svc.RegisterPerson(ctx, &core.RegisterPersonReq{
			Name:  "No Group",
			Email: "nogroup@test.local",
			Phone: "+1-555-1002",
			Role:  common.RoleDonor,
		})
		require.ErrorIs(t, err, code.ParamErr)
	})

	t.Run("unknown role is refused", func(t *testing.T) {
		_, err := svc.RegisterPerson(ctx, &core.RegisterPersonReq{
			Name:  "Mystery",
			Email: "mystery@test.local",
			Phone: "+1-555-1003",
			Role:  "WIZARD",
		})
		require.ErrorIs(t, err, code.ParamErr)
	})
}

func TestFacilities(t *testing.T) {
	ctx := context.Background()
	ds := testenv.NewDatastore(t)
	svc := New(ds)

	t.Run("blood bank with manager", func(t *testing.T) {
		manager, err := svc.RegisterPerson(ctx, &core.RegisterPersonReq{
			Name:  "Morgan",
			Email: "morgan@test.local",
			Phone: "+1-555-2000",
			Role:  common.RoleBloodBank,
		})
		require.NoError(t, err)

		bank, err := svc.CreateBloodBank(ctx, &core.CreateBloodBankReq{
			Name:           "Central",
			RegistrationNo: "BB-1",
			Email:          "central@test.local",
			Phone:          "+1-555-2001",
			City:           "Springfield",
			State:          "IL",
			ManagerUUID:    &manager.UUID,
		})
		require.NoError(t, err)
		require.NotNil(t, bank.ManagerID)
		assert.Equal(t, manager.ID, *bank.ManagerID)

		got, err := svc.GetBloodBank(ctx, bank.UUID)
		require.NoError(t, err)
		assert.Equal(t, "Central", got.Name)
	})

	t.Run("duplicate registration number is refused", func(t *testing.T) {
		_, err := svc.CreateBloodBank(ctx, &core.CreateBloodBankReq{
			Name:           "Other",
			RegistrationNo: "BB-1",
			Email:          "other@test.local",
			Phone:          "+1-555-2002",
		})
		require.ErrorIs(t, err, code.DuplicateRecord)
	})

	t.Run("hospital listing filters by city", func(t *testing.T) {
		_, err := svc.CreateHospital(ctx, &core.CreateHospitalReq{
			Name:           "General",
			RegistrationNo: "H-1",
			Email:          "general@test.local",
			Phone:          "+1-555-3000",
			City:           "Springfield",
			State:          "IL",
		})
		require.NoError(t, err)

		city := "springfield"
		resp, err := svc.ListHospitals(ctx, &core.ListFacilitiesReq{City: &city})
		require.NoError(t, err)
		require.EqualValues(t, 1, resp.Total)
		assert.Equal(t, "General", resp.Data[0].Name)

		elsewhere := "Shelbyville"
		empty, err := svc.ListHospitals(ctx, &core.ListFacilitiesReq{City: &elsewhere})
		require.NoError(t, err)
		assert.EqualValues(t, 0, empty.Total)
	})
}
