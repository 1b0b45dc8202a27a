// Package message は、HTTP/1.1メッセージの構造と変換を扱います。
//
// このパッケージは、生のバイト列をリクエストに解析し、
// レスポンスをバイト列に直列化する処理を担当します。
//
// 責務:
//   - リクエスト/レスポンス/ヘッダーの型定義
//   - リクエストテキストの解析
//   - リクエスト/レスポンスの直列化
//   - 接続からヘッダー終端までの読み込み
//
// 仕様:
//   - ヘッダーは挿入順を保持し、重複も許可する
//   - ヘッダー名の大文字小文字は正規化しない
//   - ボディは読み込まない（Query/Bodyは常に空）
//   - Content-Length等のヘッダーは自動付与しない
package message
