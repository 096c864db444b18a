// Package embedded 提供嵌入资源的统一访问接口
//
// 由于 Go embed 指令只能嵌入当前包目录及其子目录的文件，
// embed.FS 变量必须声明在项目根目录（embed.go）。
// 本包提供包装函数，让其他包可以访问嵌入的场景目录、脚本和纹理。
//
// 使用前必须调用 Init() 初始化。
package embedded

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Root 是嵌入文件系统中数据目录的名称
const Root = "data"

var (
	dataFS      fs.FS
	initialized bool
)

var errNotInitialized = fmt.Errorf("embedded package not initialized, call Init() first")

// Init 初始化数据文件系统
// 必须在 main() 开始时、任何资源加载之前调用
//
// 参数：
//   - data: 以 "data/" 为根目录的文件系统（通常是 embed.FS）
func Init(data fs.FS) {
	dataFS = data
	initialized = true
}

// IsInitialized 返回 embedded 包是否已初始化
func IsInitialized() bool {
	return initialized
}

// FS 返回以数据目录为根的文件系统，资源标识符（如 "textures/grass.png"）直接相对于它
func FS() (fs.FS, error) {
	if !initialized {
		return nil, errNotInitialized
	}
	return fs.Sub(dataFS, Root)
}

// Resolve 选择资源文件系统
//
// dir 非空时使用磁盘目录（便于开发时修改资源），否则使用嵌入的数据
func Resolve(dir string) (fs.FS, error) {
	if dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("asset root: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("asset root %s is not a directory", dir)
		}
		return os.DirFS(dir), nil
	}
	return FS()
}

// clean 标准化路径：正斜杠、去掉 "./" 与 "data/" 前缀
func clean(path string) string {
	path = filepath.ToSlash(path)
	path = strings.TrimPrefix(path, "./")
	return strings.TrimPrefix(path, Root+"/")
}

// Open 打开数据目录中的文件
// 路径可以带或不带 "data/" 前缀
func Open(path string) (fs.File, error) {
	sub, err := FS()
	if err != nil {
		return nil, err
	}
	return sub.Open(clean(path))
}

// ReadFile 读取数据目录中的文件内容
func ReadFile(path string) ([]byte, error) {
	sub, err := FS()
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(sub, clean(path))
}

// Exists 检查文件是否存在
func Exists(path string) bool {
	file, err := Open(path)
	if err != nil {
		return false
	}
	file.Close()
	return true
}

// Glob 在数据目录中匹配文件
func Glob(pattern string) ([]string, error) {
	sub, err := FS()
	if err != nil {
		return nil, err
	}
	return fs.Glob(sub, clean(pattern))
}

// ReadDir 读取目录内容
func ReadDir(path string) ([]fs.DirEntry, error) {
	sub, err := FS()
	if err != nil {
		return nil, err
	}
	path = clean(path)
	if path == "" || path == Root {
		path = "."
	}
	return fs.ReadDir(sub, path)
}

// Stat 获取文件信息
func Stat(path string) (fs.FileInfo, error) {
	file, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return file.Stat()
}
