package repository

import (
	"context"
	"fmt"

	"github.com/gra-app/gra/models"
)

// InsertUserRoute associates a user with a route; an identical association is left as is
func InsertUserRoute(ctx context.Context, q Querier, ur models.UserRoute) error {
	query := q.Rebind(`
		INSERT INTO user_route (user_id, route_id)
		VALUES (?, ?)
		ON CONFLICT (user_id, route_id) DO NOTHING
	`)

	if _, err := q.ExecContext(ctx, query, ur.UserID, ur.RouteID); err != nil {
		return fmt.Errorf("failed to associate user %s with route %d: %w", ur.UserID, ur.RouteID, err)
	}
	return nil
}

// DeleteUserRoute removes a user's association with a route. The route and its
// trips are kept. Deleting a missing association returns 0 and no error.
func DeleteUserRoute(ctx context.Context, q Querier, ur models.UserRoute) (int64, error) {
	query := q.Rebind(`DELETE FROM user_route WHERE user_id = ? AND route_id = ?`)

	result, err := q.ExecContext(ctx, query, ur.UserID, ur.RouteID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete user route: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted user routes: %w", err)
	}
	return deleted, nil
}

