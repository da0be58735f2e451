package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/db"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

type cartRepository struct {
	q    *db.Queries
	dbtx db.DBTX
}

func NewCart(pool *pgxpool.Pool) port.CartRepository {
	return &cartRepository{
		q:    db.New(pool),
		dbtx: pool,
	}
}

func NewCartWithTx(tx pgx.Tx) port.CartRepository {
	return &cartRepository{
		q:    db.New(tx),
		dbtx: tx,
	}
}

func (r *cartRepository) GetOrCreateCart(ctx context.Context, ownerID uuid.UUID) (domain.Cart, error) {
	if ownerID == uuid.Nil {
		return domain.Cart{}, fmt.Errorf("ownerID is empty")
	}

	cart, err := withTx(ctx, r.dbtx, func(q *db.Queries) (domain.Cart, error) {
		if err := q.EnsureCart(ctx, ownerID); err != nil {
			return domain.Cart{}, fmt.Errorf("q.EnsureCart: %w", err)
		}

		dbCart, err := q.GetCartByOwner(ctx, ownerID)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("q.GetCartByOwner: %w", err)
		}

		dbCartItems, err := q.GetCartItems(ctx, dbCart.ID)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("q.GetCartItems: %w", err)
		}

		items, err := mapGetCartItemsRowsToDomain(dbCartItems)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("mapGetCartItemsRowsToDomain: %w", err)
		}

		return domain.Cart{
			ID:        dbCart.ID,
			OwnerID:   dbCart.OwnerID,
			Items:     items,
			CreatedAt: dbCart.CreatedAt,
			UpdatedAt: dbCart.UpdatedAt,
		}, nil
	})
	if err != nil {
		return domain.Cart{}, fmt.Errorf("withTx: %w", err)
	}

	return cart, nil
}

func (r *cartRepository) GetItemForUpdate(ctx context.Context, cartID, productID uuid.UUID) (domain.CartItem, error) {
	row, err := r.q.GetCartItemForUpdate(ctx, db.GetCartItemForUpdateParams{
		CartID:    cartID,
		ProductID: productID,
	})
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("q.GetCartItemForUpdate: %w", notFoundIfNoRows(err))
	}

	return domain.CartItem{
		ID:        row.ID,
		ProductID: row.ProductID,
		Quantity:  int(row.Quantity),
		CreatedAt: row.CreatedAt,
	}, nil
}

func (r *cartRepository) UpsertItem(ctx context.Context, cartID, productID uuid.UUID, quantity int) (uuid.UUID, error) {
	if quantity <= 0 {
		return uuid.Nil, fmt.Errorf("quantity is not positive")
	}

	itemID, err := withTx(ctx, r.dbtx, func(q *db.Queries) (uuid.UUID, error) {
		itemID, err := q.UpsertCartItem(ctx, db.UpsertCartItemParams{
			CartID:    cartID,
			ProductID: productID,
			Quantity:  int32(quantity),
		})
		if err != nil {
			if isForeignKeyViolation(err) {
				return uuid.Nil, fmt.Errorf("q.UpsertCartItem: %w", domain.ErrNotFound)
			}
			return uuid.Nil, fmt.Errorf("q.UpsertCartItem: %w", err)
		}

		if err := q.TouchCart(ctx, cartID); err != nil {
			return uuid.Nil, fmt.Errorf("q.TouchCart: %w", err)
		}

		return itemID, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("withTx: %w", err)
	}

	return itemID, nil
}

func (r *cartRepository) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) (bool, error) {
	rowsAffected, err := r.q.DeleteCartItem(ctx, db.DeleteCartItemParams{
		CartID: cartID,
		ID:     itemID,
	})
	if err != nil {
		return false, fmt.Errorf("q.DeleteCartItem: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *cartRepository) DeleteItems(ctx context.Context, cartID uuid.UUID, itemIDs []uuid.UUID) (int, error) {
	if len(itemIDs) == 0 {
		return 0, nil
	}

	rowsAffected, err := r.q.DeleteCartItems(ctx, db.DeleteCartItemsParams{
		CartID: cartID,
		Ids:    itemIDs,
	})
	if err != nil {
		return 0, fmt.Errorf("q.DeleteCartItems: %w", err)
	}

	return int(rowsAffected), nil
}

func mapGetCartItemsRowToDomain(row db.GetCartItemsRow) (domain.CartItem, error) {
	price, err := toMoney(row.PriceAmount, row.PriceCurrency)
	if err != nil {
		return domain.CartItem{}, err
	}

	return domain.CartItem{
		ID:          row.ID,
		ProductID:   row.ProductID,
		ProductName: row.ProductName,
		Price:       price,
		Stock:       int(row.Stock),
		Quantity:    int(row.Quantity),
		CreatedAt:   row.CreatedAt,
	}, nil
}

func mapGetCartItemsRowsToDomain(rows []db.GetCartItemsRow) ([]domain.CartItem, error) {
	var items []domain.CartItem

	for _, row := range rows {
		item, err := mapGetCartItemsRowToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapGetCartItemsRowToDomain: %w", err)
		}

		items = append(items, item)
	}

	return items, nil
}
