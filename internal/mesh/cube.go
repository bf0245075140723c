// internal/mesh/cube.go
// Package mesh 提供伴随每次生成输出的3D模型数据。
// 当前模型是常量单位立方体（Wavefront OBJ 格式）。
package mesh

// cubeOBJ 以原点为中心、边长为2的立方体，8个顶点、6个四边形面
const cubeOBJ = `# Simple cube OBJ file
v -1.0 -1.0 -1.0
v -1.0 -1.0 1.0
v -1.0 1.0 -1.0
v -1.0 1.0 1.0
v 1.0 -1.0 -1.0
v 1.0 -1.0 1.0
v 1.0 1.0 -1.0
v 1.0 1.0 1.0
f 1 3 7 5
f 2 6 8 4
f 1 5 6 2
f 3 4 8 7
f 1 2 4 3
f 5 7 8 6`

// CubeOBJ 返回立方体模型的OBJ文本。
// 返回值与输入无关，每次调用内容相同。
func CubeOBJ() string {
	return cubeOBJ
}
