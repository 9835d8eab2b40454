package shared

import (
	"context"
	"fmt"
	"hash/fnv"
	"reflect"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"appointly/shared/cache"
	"appointly/shared/constant"
	"appointly/shared/dto"
	"appointly/shared/failure"
	"appointly/shared/timezone"
)

const cacheKeySeparator = ":"

// CalculateTotalPage never returns less than one page.
func CalculateTotalPage(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 1
	}

	return (total + limit - 1) / limit
}

// TransformFields turns a patch request into UPDATE columns. Only db-tagged fields that were
// set (non-zero) are kept; pointers are dereferenced so *bool false still clears a flag.
func TransformFields(data any, actor string) map[string]any {
	val := reflect.ValueOf(data)
	typ := val.Type()

	updatedFields := make(map[string]any)

	for index := range val.NumField() {
		column := typ.Field(index).Tag.Get("db")
		field := val.Field(index)

		if column == "" || field.IsZero() {
			continue
		}

		if field.Kind() == reflect.Pointer {
			field = field.Elem()
		}

		updatedFields[column] = field.Interface()
	}

	updatedFields[constant.FieldModifiedAt] = timezone.Now()
	updatedFields[constant.FieldModifiedBy] = actor

	return updatedFields
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return FilterByField(fieldID, id, table)
}

func FilterByField(field string, value any, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    field,
				Value:    value,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// BuildCacheKey joins prefix and parts with ':'. Empty parts are kept so positions stay stable.
func BuildCacheKey(prefix string, parts ...string) string {
	return strings.Join(append([]string{prefix}, parts...), cacheKeySeparator)
}

// BuildCacheKeyWithQuery derives a key from pagination params and the rendered filter.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter dto.FilterGroup) string {
	where, args := filter.GetWhereClause()

	hash := fnv.New64a()
	_, _ = fmt.Fprintf(hash, "%s|%v", where, args)

	return BuildCacheKey(
		prefix,
		strconv.Itoa(params.Page),
		strconv.Itoa(params.Limit),
		params.SortBy,
		params.SortDir,
		strconv.FormatUint(hash.Sum64(), 16),
	)
}

// InvalidateCaches drops every key under prefix. Errors are logged only.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefix string) {
	if err := redisCache.Clear(ctx, prefix+constant.Asterix); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}

// OwnerFromContext returns the authenticated owner placed in ctx by the auth middleware.
func OwnerFromContext(ctx context.Context) (string, error) {
	owner, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if owner == constant.Empty {
		return "", failure.Unauthorized("missing owner identity") //nolint:wrapcheck
	}

	return owner, nil
}

// OwnedByID scopes a lookup by primary key to one owner.
func OwnedByID(id, fieldID, fieldOwner, owner, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: fieldID, Value: id, Operator: dto.FilterOperatorEq, Table: table},
			dto.Filter{Field: fieldOwner, Value: owner, Operator: dto.FilterOperatorEq, Table: table},
		},
	}
}
