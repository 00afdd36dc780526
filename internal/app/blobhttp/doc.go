// Package blobhttp реализует локальный blob-шлюз для разработки и тестов: контентно-адресуемые
// блобы и манифесты расшаренных файлов поверх локального диска. Основные эндпоинты:
//   - PUT /ipfs/{id}: принимает блоб, проверяет размер/хеш и сохраняет атомарно через временный файл.
//   - GET /ipfs/{id}: отдаёт блоб целиком или диапазон из заголовка Range (206 + Content-Range).
//   - HEAD /ipfs/{id}: возвращает размер через Content-Length.
//   - POST /api/reqdata: регистрирует манифест и возвращает выданный токен.
//   - GET /api/reqdata?shared={token}: отдаёт манифест в формате сервиса метаданных.
//   - POST /admin/gc: удаляет брошенные временные файлы загрузок (ручной GC).
//   - GET /health: число и объём блобов, число манифестов и недописанных загрузок.
package blobhttp
