package usecase

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"safari_backend/internal/platform/imageproc"
)

// Engine は画像処理の重い依存をまとめたものです。呼び出しごとの状態を持たず、並行に共有できます。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type Engine interface {
	// Preprocess はヒストグラム平坦化、クロージング、平滑化を行います。
	Preprocess(g *imageproc.Grid) *imageproc.Grid

	// Skeletonize は二値化と細線化を行い、リッジの中心線を返します。
	Skeletonize(g *imageproc.Grid) (*imageproc.BinaryMap, error)

	// DetectKeypoints は縮退経路で使用するコーナー特徴点の数を返します。
	DetectKeypoints(g *imageproc.Grid) int
}

// EngineFactory はEngineを構築します。構築は初回使用時まで遅延されます。
type EngineFactory func() (Engine, error)

// EngineRegistry は名前からEngineFactoryを解決します。
type EngineRegistry struct {
	mu        sync.RWMutex
	factories map[string]EngineFactory
}

// NewEngineRegistry は空のレジストリを生成します。
func NewEngineRegistry() *EngineRegistry {
	return &EngineRegistry{factories: make(map[string]EngineFactory)}
}

// Register はファクトリを名前で登録します。同名の登録は上書きされます。
func (r *EngineRegistry) Register(name string, f EngineFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// Names は登録済みのエンジン名をソートして返します。
func (r *EngineRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Factory は名前に対応するファクトリを返します。
// 未登録の名前でもここでは失敗せず、返されたファクトリの呼び出し時にエラーになります。
func (r *EngineRegistry) Factory(name string) EngineFactory {
	return func() (Engine, error) {
		r.mu.RLock()
		f, ok := r.factories[name]
		r.mu.RUnlock()
		if !ok {
			return nil, fmt.Errorf("engine %q is not registered (available: %s)", name, strings.Join(r.Names(), ", "))
		}
		return f()
	}
}
