package model

// 后端健康状态
const (
	BackendHealthy     = "healthy"
	BackendUnreachable = "unreachable"
)

// GatewayHealth 主服务聚合后的健康信息
type GatewayHealth struct {
	Status     string            `json:"status"`
	MainServer string            `json:"mainServer"`
	Backends   map[string]string `json:"backends"`
	Timestamp  string            `json:"timestamp"`
}

// AllHealthy 是否所有后端都可达
func (h *GatewayHealth) AllHealthy() bool {
	for _, status := range h.Backends {
		if status != BackendHealthy {
			return false
		}
	}
	return true
}
