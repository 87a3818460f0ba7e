// Package batch はディレクトリ内の指紋画像をまとめて登録します。
// ファイル名は "<student_id>.<拡張子>" の形式です。
package batch

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"safari_backend/internal/shared/ratelimiter"
)

// Enroller は生徒1人分の登録を行います。
type Enroller interface {
	Enroll(ctx context.Context, studentID uint, image string) error
}

// EnrollerFunc は関数をEnrollerとして扱うアダプターです。
type EnrollerFunc func(ctx context.Context, studentID uint, image string) error

func (f EnrollerFunc) Enroll(ctx context.Context, studentID uint, image string) error {
	return f(ctx, studentID, image)
}

// Summary は一括登録の結果です。
type Summary struct {
	Enrolled int
	Failed   int
	Skipped  int
}

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true,
	".tif": true, ".tiff": true, ".webp": true, ".pgm": true, ".pbm": true, ".ppm": true,
}

// Run はdir直下の画像をos.ReadDirの返す名前順に登録します。個々の失敗はログに残して処理を続けます。
// ctxがキャンセルされた場合はそこで中断し、それまでの集計とエラーを返します。
func Run(ctx context.Context, dir string, enroller Enroller, limiter ratelimiter.Limiter) (Summary, error) {
	var sum Summary

	entries, err := os.ReadDir(dir)
	if err != nil {
		return sum, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		id, ok := StudentID(name)
		if !ok {
			slog.Warn("skipping file", "file", name)
			sum.Skipped++
			continue
		}

		if err := limiter.Wait(ctx); err != nil {
			return sum, err
		}

		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			slog.Error("failed to read image", "file", name, "error", err)
			sum.Failed++
			continue
		}

		if err := enroller.Enroll(ctx, id, base64.StdEncoding.EncodeToString(raw)); err != nil {
			slog.Error("enrollment failed", "student_id", id, "file", name, "error", err)
			sum.Failed++
			continue
		}
		slog.Info("enrolled", "student_id", id, "file", name)
		sum.Enrolled++
	}
	return sum, nil
}

// StudentID はファイル名から生徒IDを取り出します。
func StudentID(name string) (uint, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	if !imageExts[ext] {
		return 0, false
	}
	id, err := strconv.ParseUint(strings.TrimSuffix(name, filepath.Ext(name)), 10, 0)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
