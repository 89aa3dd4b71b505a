// Package web は埋め込みのSPAクライアントを配信する。
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFiles embed.FS

// Handler は埋め込み静的ファイルを配信するHTTPハンドラーを返す。
// ルートパスはindex.htmlにフォールバックする。
func Handler() http.Handler {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		// go:embedのパスが正しければ到達しない
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
