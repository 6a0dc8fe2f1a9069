//go:generate mockgen -source=../router.go -destination=./mock_order_service.go -package=mocks

package mocks
