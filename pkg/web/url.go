package web

import (
	// 外部依赖
	"context"

	gin "github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	// 内部引用
	common "github.com/hemolink/bloodlink/pkg/common"
	auth "github.com/hemolink/bloodlink/pkg/middleware/auth"
	db "github.com/hemolink/bloodlink/pkg/middleware/db"
	donationView "github.com/hemolink/bloodlink/pkg/web/views/donation"
	donorView "github.com/hemolink/bloodlink/pkg/web/views/donor"
	facilityView "github.com/hemolink/bloodlink/pkg/web/views/facility"
	healthView "github.com/hemolink/bloodlink/pkg/web/views/health"
	inventoryView "github.com/hemolink/bloodlink/pkg/web/views/inventory"
	personView "github.com/hemolink/bloodlink/pkg/web/views/person"
	requestView "github.com/hemolink/bloodlink/pkg/web/views/request"
)

func InstallURL(_ context.Context, g *gin.Engine, ds *db.Datastore) {
	api := g.Group("/api")
	api.GET("/health", healthView.Health)
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	inventoryH := inventoryView.NewHandle(ds)
	donorH := donorView.NewHandle(ds)
	personH := personView.NewHandle(ds)
	facilityH := facilityView.NewHandle(ds)
	requestH := requestView.NewHandle(ds)
	donationH := donationView.NewHandle(ds)

	v1 := api.Group("/v1")

	// 公共读 + 建档
	{
		v1.GET("/inventory/availability", inventoryH.Availability)
		v1.GET("/inventory/stats", inventoryH.Stats)
		v1.GET("/blood-banks", facilityH.ListBloodBanks)
		v1.GET("/blood-banks/:uuid", facilityH.GetBloodBank)
		v1.GET("/hospitals", facilityH.ListHospitals)
		v1.GET("/hospitals/:uuid", facilityH.GetHospital)
		v1.POST("/persons", personH.Register)
	}

	// 登录态
	authed := v1.Group("", auth.AuthWeb())
	{
		authed.GET("/persons", personH.List)
		authed.GET("/persons/:uuid", personH.Get)
		authed.GET("/donors/eligible", donorH.Eligible)

		authed.POST("/blood-banks", auth.RequireRole(common.RoleBloodBank), facilityH.CreateBloodBank)
		authed.POST("/hospitals", auth.RequireRole(common.RoleHospital), facilityH.CreateHospital)
	}

	// 用血申请
	{
		authed.POST("/requests", auth.RequireRole(common.RoleHospital, common.RoleNGO), requestH.Create)
		authed.GET("/requests", requestH.List)
		authed.GET("/requests/:uuid", requestH.Get)
		authed.POST("/requests/:uuid/approve", auth.RequireRole(common.RoleBloodBank), requestH.Approve)
		authed.POST("/requests/:uuid/reject", auth.RequireRole(common.RoleBloodBank), requestH.Reject)
		authed.POST("/requests/:uuid/cancel", requestH.Cancel)
		authed.POST("/requests/:uuid/fulfill", auth.RequireRole(common.RoleBloodBank), requestH.Fulfill)
	}

	// 献血预约
	{
		authed.POST("/donations", auth.RequireRole(common.RoleDonor, common.RoleBloodBank), donationH.Schedule)
		authed.GET("/donations", donationH.List)
		authed.GET("/donations/:uuid", donationH.Get)
		authed.POST("/donations/:uuid/cancel", donationH.Cancel)
		authed.POST("/donations/:uuid/no-show", auth.RequireRole(common.RoleBloodBank), donationH.NoShow)
		authed.POST("/donations/:uuid/complete", auth.RequireRole(common.RoleBloodBank), donationH.Complete)
	}
}
