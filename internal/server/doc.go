// Package server は、TCP接続の受け付けと接続単位のHTTP処理を管理します。
//
// このパッケージは、リスナーの起動、接続ごとの読み込み・解析・
// ルーティング・応答、同時接続数の制限、グレースフルシャットダウンを担当します。
//
// 責務:
//   - TCPリスナーのバインドと受け付けループ
//   - 接続ごとのゴルーチンでのリクエスト処理
//   - 接続単位の失敗の隔離（他の接続やリスナーに影響させない）
//   - 処理件数の集計
//
// 仕様:
//   - 1接続につき1リクエストを処理して閉じる（持続的接続なし）
//   - 同時接続数は golang.org/x/net/netutil で制限する
//   - 一致しないルートは既定で何も返さずに閉じる
//   - ログは logrus で接続IDとともに出力する
package server
