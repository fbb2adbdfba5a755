// Package ui содержит модель представления страницы с птицами.
//
// Компоненты повторяют дерево страницы: Page (оркестратор) владеет полным
// списком птиц и строкой поиска, Form создаёт птиц через REST-ресурс /birds,
// Search сообщает о каждом изменении строки поиска, List сопоставляет
// отображаемым птицам карточки, а Card хранит только локальный флаг
// доступности, который никуда не отправляется.
//
// Дочерние компоненты общаются с Page типизированными событиями (Event),
// а отображение — чистая функция от текущего состояния.
package ui
