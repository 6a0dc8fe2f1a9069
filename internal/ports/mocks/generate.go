//go:generate mockgen -source=../order_repository.go -destination=./mock_order_repository.go -package=mocks
//go:generate mockgen -source=../order_cache.go      -destination=./mock_order_cache.go      -package=mocks
//go:generate mockgen -source=../row_validator.go    -destination=./mock_row_validator.go    -package=mocks
//go:generate mockgen -source=../logger.go           -destination=./mock_logger.go           -package=mocks
//go:generate mockgen -source=../message_consumer.go -destination=./mock_message_consumer.go -package=mocks
//go:generate mockgen -source=../invoice_renderer.go -destination=./mock_invoice_renderer.go -package=mocks

package mocks
