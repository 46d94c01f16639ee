package uuid

import (
	// 外部依赖
	guuid "github.com/gofrs/uuid/v5"
)

// UUID 统一对外暴露的资源标识类型，底层使用 gofrs v4
type UUID = guuid.UUID

var Nil = guuid.Nil

func NewV4() UUID {
	return guuid.Must(guuid.NewV4())
}

func FromString(s string) (UUID, error) {
	return guuid.FromString(s)
}
