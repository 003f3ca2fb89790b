package dto

// ── 集成密钥模块 DTO ──

// APIKeyResponse 当前密钥信息（脱敏）
type APIKeyResponse struct {
	Exists     bool   `json:"exists"`
	MaskedKey  string `json:"masked_key,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
	LastUsedAt string `json:"last_used_at,omitempty"`
}

// GeneratedAPIKeyResponse 新生成的密钥，明文仅返回这一次
type GeneratedAPIKeyResponse struct {
	Key       string `json:"key"`
	MaskedKey string `json:"masked_key"`
	CreatedAt string `json:"created_at"`
}
