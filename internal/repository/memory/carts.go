package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
)

func (v *view) GetOrCreateCart(_ context.Context, ownerID uuid.UUID) (domain.Cart, error) {
	if ownerID == uuid.Nil {
		return domain.Cart{}, fmt.Errorf("ownerID is empty")
	}

	var cart domain.Cart

	err := v.write("GetOrCreateCart", func(st *state) error {
		if _, ok := st.users[ownerID]; !ok {
			return fmt.Errorf("owner: %w", domain.ErrNotFound)
		}

		cartID, ok := st.cartOwner[ownerID]
		if !ok {
			now := v.now()
			cartID = uuid.New()
			st.carts[cartID] = domain.Cart{ID: cartID, OwnerID: ownerID, CreatedAt: now, UpdatedAt: now}
			st.cartOwner[ownerID] = cartID
		}

		cart = st.carts[cartID]
		cart.Items = make([]domain.CartItem, 0, len(cart.Items))
		for _, line := range st.carts[cartID].Items {
			p := st.products[line.ProductID]
			line.ProductName = p.Name
			line.Price = p.Price
			line.Stock = p.Stock
			cart.Items = append(cart.Items, line)
		}

		return nil
	})
	if err != nil {
		return domain.Cart{}, fmt.Errorf("GetOrCreateCart: %w", err)
	}

	return cart, nil
}

func (v *view) GetItemForUpdate(_ context.Context, cartID, productID uuid.UUID) (domain.CartItem, error) {
	var item domain.CartItem

	err := v.read(func(st *state) error {
		for _, line := range st.carts[cartID].Items {
			if line.ProductID == productID {
				item = line
				return nil
			}
		}
		return domain.ErrNotFound
	})
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("GetItemForUpdate: %w", err)
	}

	return item, nil
}

func (v *view) UpsertItem(_ context.Context, cartID, productID uuid.UUID, quantity int) (uuid.UUID, error) {
	if quantity <= 0 {
		return uuid.Nil, fmt.Errorf("quantity is not positive")
	}

	var itemID uuid.UUID

	err := v.write("UpsertItem", func(st *state) error {
		cart, ok := st.carts[cartID]
		if !ok {
			return domain.ErrNotFound
		}
		if _, ok := st.products[productID]; !ok {
			return domain.ErrNotFound
		}

		idx := slices.IndexFunc(cart.Items, func(line domain.CartItem) bool {
			return line.ProductID == productID
		})

		items := slices.Clone(cart.Items)
		if idx >= 0 {
			items[idx].Quantity = quantity
			itemID = items[idx].ID
		} else {
			itemID = uuid.New()
			items = append(items, domain.CartItem{
				ID:        itemID,
				ProductID: productID,
				Quantity:  quantity,
				CreatedAt: v.now(),
			})
		}

		cart.Items = items
		cart.UpdatedAt = v.now()
		st.carts[cartID] = cart
		return nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("UpsertItem: %w", err)
	}

	return itemID, nil
}

func (v *view) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) (bool, error) {
	n, err := v.deleteItems("DeleteItem", cartID, []uuid.UUID{itemID})
	return n > 0, err
}

func (v *view) DeleteItems(_ context.Context, cartID uuid.UUID, itemIDs []uuid.UUID) (int, error) {
	return v.deleteItems("DeleteItems", cartID, itemIDs)
}

func (v *view) deleteItems(op string, cartID uuid.UUID, itemIDs []uuid.UUID) (int, error) {
	var deleted int

	err := v.write(op, func(st *state) error {
		cart, ok := st.carts[cartID]
		if !ok {
			return nil
		}

		kept := slices.DeleteFunc(slices.Clone(cart.Items), func(line domain.CartItem) bool {
			return slices.Contains(itemIDs, line.ID)
		})
		deleted = len(cart.Items) - len(kept)

		cart.Items = kept
		st.carts[cartID] = cart
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return deleted, nil
}
