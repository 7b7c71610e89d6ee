package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"paypal-order-sync/internal/cart"
	"paypal-order-sync/internal/client"
	"paypal-order-sync/internal/dto"
	"paypal-order-sync/internal/model"
	"paypal-order-sync/internal/order"
	"paypal-order-sync/internal/patch"
	"paypal-order-sync/internal/repository"
)

// SyncService keeps the remote order resource in line with the host cart. It
// owns the read-diff-patch-replace cycle over the stored baseline snapshot;
// each accepted remote update atomically becomes the new baseline.
type SyncService interface {
	CreateOrder(ctx context.Context, req *dto.CheckoutRequest) (*dto.OrderResponse, error)
	UpdateOrder(ctx context.Context, orderID string, req *dto.CheckoutRequest) (*dto.OrderResponse, error)
	GetOrder(ctx context.Context, orderID string) (*order.Order, error)
	Capabilities(ctx context.Context) (*dto.CapabilitiesResponse, error)
}

type syncServiceImpl struct {
	db           *gorm.DB
	paypalClient client.PaypalClient
	snapshotRepo repository.SnapshotRepository
	intent       order.Intent
	tolerance    decimal.Decimal
	log          *zap.Logger
}

func NewSyncService(
	db *gorm.DB,
	paypalClient client.PaypalClient,
	snapshotRepo repository.SnapshotRepository,
	intent order.Intent,
	tolerance decimal.Decimal,
	log *zap.Logger,
) SyncService {
	return &syncServiceImpl{
		db:           db,
		paypalClient: paypalClient,
		snapshotRepo: snapshotRepo,
		intent:       intent,
		tolerance:    tolerance,
		log:          log,
	}
}

// buildDesired converts a cart reading into the desired snapshot. A ditch is
// a degradation, not an error: the order still charges the right total, it
// just loses line-item detail on the wire.
func (s *syncServiceImpl) buildDesired(req *dto.CheckoutRequest) (*order.Order, error) {
	desired, err := cart.Order(req.ToCart(), s.intent, order.WithTolerance(s.tolerance))
	if err != nil {
		return nil, fmt.Errorf("build order from cart: %w", err)
	}
	for _, unit := range desired.PurchaseUnits {
		if unit.Ditched() {
			s.log.Warn("purchase unit detail ditched",
				zap.String("reference_id", unit.ReferenceID),
				zap.String("reason", unit.DitchReason()),
			)
		}
	}
	return desired, nil
}

func (s *syncServiceImpl) CreateOrder(ctx context.Context, req *dto.CheckoutRequest) (*dto.OrderResponse, error) {
	desired, err := s.buildDesired(req)
	if err != nil {
		return nil, err
	}

	result, err := s.paypalClient.CreateOrder(ctx, desired)
	if err != nil {
		return nil, fmt.Errorf("paypal api create order: %w", err)
	}
	created := result.Order

	payload, err := json.Marshal(created)
	if err != nil {
		return nil, fmt.Errorf("serialize created order: %w", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.snapshotRepo.Create(ctx, tx, &model.OrderSnapshot{
			OrderID: created.ID,
			Status:  string(created.Status),
			Intent:  string(created.Intent),
			Payload: payload,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("store order snapshot: %w", err)
	}

	return &dto.OrderResponse{
		OrderID:    created.ID,
		Status:     string(created.Status),
		ApproveURL: result.ApproveURL,
	}, nil
}

func (s *syncServiceImpl) UpdateOrder(ctx context.Context, orderID string, req *dto.CheckoutRequest) (*dto.OrderResponse, error) {
	stored, err := s.snapshotRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no snapshot for order %s: %w", orderID, err)
		}
		return nil, fmt.Errorf("load order snapshot: %w", err)
	}

	current, err := order.ParseOrder(stored.Payload)
	if err != nil {
		return nil, fmt.Errorf("parse stored snapshot: %w", err)
	}
	if !current.Created() {
		return nil, fmt.Errorf("order %s has not been created remotely", orderID)
	}

	desired, err := s.buildDesired(req)
	if err != nil {
		return nil, err
	}

	patches, err := patch.Diff(current, desired)
	if err != nil {
		return nil, fmt.Errorf("diff order snapshots: %w", err)
	}
	if len(patches) == 0 {
		return &dto.OrderResponse{
			OrderID: orderID,
			Status:  string(current.Status),
		}, nil
	}

	if err := s.paypalClient.PatchOrder(ctx, orderID, patches); err != nil {
		return nil, fmt.Errorf("paypal api patch order: %w", err)
	}

	baseline := applyUnits(current, desired)
	payload, err := json.Marshal(baseline)
	if err != nil {
		return nil, fmt.Errorf("serialize patched snapshot: %w", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.snapshotRepo.Replace(ctx, tx, orderID, string(baseline.Status), string(baseline.Intent), payload)
	})
	if err != nil {
		return nil, fmt.Errorf("replace order snapshot: %w", err)
	}

	s.log.Info("order patched",
		zap.String("order_id", orderID),
		zap.Int("operations", len(patches)),
	)

	return &dto.OrderResponse{
		OrderID: orderID,
		Status:  string(baseline.Status),
		Patched: len(patches),
	}, nil
}

func (s *syncServiceImpl) GetOrder(ctx context.Context, orderID string) (*order.Order, error) {
	remote, err := s.paypalClient.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("paypal api get order: %w", err)
	}

	payload, err := json.Marshal(remote)
	if err != nil {
		return nil, fmt.Errorf("serialize fetched order: %w", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := s.snapshotRepo.Replace(ctx, tx, orderID, string(remote.Status), string(remote.Intent), payload)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.snapshotRepo.Create(ctx, tx, &model.OrderSnapshot{
				OrderID: orderID,
				Status:  string(remote.Status),
				Intent:  string(remote.Intent),
				Payload: payload,
			})
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("refresh order snapshot: %w", err)
	}

	return remote, nil
}

// Capabilities reports whether the configured credentials allow vaulting and
// shipment tracking, derived from the minted token's scope.
func (s *syncServiceImpl) Capabilities(ctx context.Context) (*dto.CapabilitiesResponse, error) {
	vaulting, tracking, err := s.paypalClient.Capabilities(ctx)
	if err != nil {
		return nil, fmt.Errorf("paypal api capabilities: %w", err)
	}
	return &dto.CapabilitiesResponse{
		VaultingAvailable: vaulting,
		TrackingAvailable: tracking,
	}, nil
}

// applyUnits mirrors the emitted patches onto the stored baseline: desired
// units replace or join their counterparts by reference id, remote-only
// fields (payer, status, timestamps) stay untouched, and nothing is removed.
func applyUnits(current, desired *order.Order) *order.Order {
	baseline := *current
	baseline.PurchaseUnits = make([]order.PurchaseUnit, len(current.PurchaseUnits))
	copy(baseline.PurchaseUnits, current.PurchaseUnits)

	for _, unit := range desired.PurchaseUnits {
		replaced := false
		for i := range baseline.PurchaseUnits {
			if baseline.PurchaseUnits[i].ReferenceID == unit.ReferenceID {
				baseline.PurchaseUnits[i] = unit
				replaced = true
				break
			}
		}
		if !replaced {
			baseline.PurchaseUnits = append(baseline.PurchaseUnits, unit)
		}
	}
	return &baseline
}
