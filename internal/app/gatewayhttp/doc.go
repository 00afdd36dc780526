// Package gatewayhttp реализует HTTP-шлюз виртуальных объектов: файл хранится как
// упорядоченная последовательность контентно-адресуемых чанков, а клиент видит один поток байт.
//   - GET /?shared={token}&filename={name}: объект целиком или единственный диапазон из заголовка Range.
//   - HEAD /?shared={token}: только заголовки.
//   - GET /health, GET /metrics: liveness и prometheus-метрики.
//   - GET /admin/config, POST /admin/gateways: текущая конфигурация и добавление blob-шлюзов.
package gatewayhttp
