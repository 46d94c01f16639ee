package notify

import (
	// 外部依赖
	"context"
	"net/http"
	"time"

	resty "github.com/go-resty/resty/v2"

	// 内部引用
	config "github.com/hemolink/bloodlink/internal/config"
	code "github.com/hemolink/bloodlink/pkg/common/code"
	logger "github.com/hemolink/bloodlink/pkg/middleware/logger"
	repo "github.com/hemolink/bloodlink/pkg/repo"
)

type webhookImpl struct {
	client *resty.Client
	addr   string
}

// New 低库存告警 webhook 客户端，地址未配置时所有调用为 no-op
func New() repo.Notifier {
	addr := config.Global().RPC.Alert.Addr

	return &webhookImpl{
		addr: addr,
		client: resty.New().
			SetTimeout(10 * time.Second).
			SetBaseURL(addr).
			SetHeader("Content-Type", "application/json"),
	}
}

func (w *webhookImpl) NotifyLowStock(ctx context.Context, alert *repo.LowStockAlert) error {
	if w.addr == "" {
		return nil
	}

	res, err := w.client.R().
		SetContext(ctx).
		SetBody(alert).
		Post("")
	if err != nil {
		logger.Errorf(ctx, "NotifyLowStock request err: %v", err)
		return code.RPCHttpErr.WithErr(err)
	}
	if res.StatusCode() >= http.StatusMultipleChoices {
		return code.RPCHttpCodeErr.WithMsgf("low stock alert failed: status %d", res.StatusCode())
	}
	return nil
}
