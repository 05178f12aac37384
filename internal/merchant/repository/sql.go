package repository

import (
	"strings"

	"github.com/fekuna/cardmap-service/internal/merchant/criteria"
	"github.com/lib/pq"
)

// pointExpr is the query center as a geography, bound from :lng and :lat.
const pointExpr = "CAST(ST_SetSRID(ST_MakePoint(:lng, :lat), 4326) AS geography)"

const activeCondition = "EXISTS (SELECT 1 FROM merchant_card mc WHERE mc.merchant_id = m.id)"

// buildWhere renders crit as a WHERE clause over merchant m, with named
// parameters for sqlx. It returns an empty clause for empty criteria.
func buildWhere(crit criteria.Criteria) (string, map[string]interface{}) {
	conditions := []string{}
	args := map[string]interface{}{}

	if center, radius, ok := crit.Center(); ok {
		conditions = append(conditions,
			"m.location IS NOT NULL",
			"ST_DWithin(m.location, "+pointExpr+", :radius, false)")
		args["lng"] = center.Lng()
		args["lat"] = center.Lat()
		args["radius"] = radius
	}
	if crit.RequiresActive() {
		conditions = append(conditions, activeCondition)
	}
	if cardID, ok := crit.CardID(); ok {
		conditions = append(conditions,
			"EXISTS (SELECT 1 FROM merchant_card mc WHERE mc.merchant_id = m.id AND mc.card_id = :card_id)")
		args["card_id"] = cardID
	}
	if names, ok := crit.CardNames(); ok {
		conditions = append(conditions,
			"EXISTS (SELECT 1 FROM merchant_card mc JOIN card cd ON cd.id = mc.card_id"+
				" WHERE mc.merchant_id = m.id AND cd.name = ANY(:card_names))")
		args["card_names"] = pq.Array(names)
	}
	if categoryID, ok := crit.CategoryID(); ok {
		conditions = append(conditions, "m.category_id = :category_id")
		args["category_id"] = categoryID
	}
	if kw, ok := crit.Keyword(); ok {
		conditions = append(conditions, "(m.name ILIKE :keyword OR m.address ILIKE :keyword)")
		args["keyword"] = "%" + escapeLike(kw) + "%"
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes kw match literally inside an ILIKE pattern.
func escapeLike(kw string) string {
	return likeEscaper.Replace(kw)
}
