// internal/models/artifact.go
package models

// ArtifactFiles 一次生成产出的文件名集合
type ArtifactFiles struct {
	Image  string `json:"image"`
	Model  string `json:"model"`
	Viewer string `json:"viewer"`
}

// GenerateResult 生成接口的响应数据
type GenerateResult struct {
	Message        string        `json:"message"`
	Files          ArtifactFiles `json:"files"`
	SceneType      SceneType     `json:"scene_type"`
	Palette        Palette       `json:"palette"`
	ExpandedPrompt string        `json:"expanded_prompt"`
	RecordID       string        `json:"record_id"`
}
