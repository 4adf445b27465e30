package profiling

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DataKitchen/dataops-testgen-sub000/pkg/models"
)

func TestTableCriteria_ExplicitListBypassesMasks(t *testing.T) {
	tg := &models.TableGroup{
		ExplicitTableList:   []string{"orders", "order_items"},
		TablesToIncludeMask: "cust%",
	}
	assert.Equal(t, "c.table_name IN ('orders', 'order_items')", tableCriteria(tg))
}

func TestTableCriteria_QuotesEscaped(t *testing.T) {
	tg := &models.TableGroup{ExplicitTableList: []string{"o'brien"}}
	assert.Equal(t, "c.table_name IN ('o''brien')", tableCriteria(tg))

	tg = &models.TableGroup{TablesToIncludeMask: "it's%"}
	assert.Equal(t, "c.table_name LIKE 'it''s%'", tableCriteria(tg))
}

func TestTableCriteria_Masks(t *testing.T) {
	tg := &models.TableGroup{
		TablesToIncludeMask: "fact_%",
		TablesToExcludeMask: "%_bak",
	}
	assert.Equal(t,
		"c.table_name LIKE 'fact_%' AND c.table_name NOT LIKE '%_bak'",
		tableCriteria(tg))

	tg = &models.TableGroup{TablesToExcludeMask: "tmp_%"}
	assert.Equal(t, "c.table_name NOT LIKE 'tmp_%'", tableCriteria(tg))
}

func TestTableCriteria_Unscoped(t *testing.T) {
	assert.Equal(t, "1=1", tableCriteria(&models.TableGroup{}))
}

func TestGroupByTable_SortedKeys(t *testing.T) {
	cols := []columnMeta{
		{Schema: "s2", Table: "b"},
		{Schema: "s1", Table: "z"},
		{Schema: "s1", Table: "a"},
		{Schema: "s1", Table: "a"},
	}

	tables := groupByTable(cols)
	assert.Len(t, tables, 3)
	assert.Len(t, tables[tableKey{Schema: "s1", Table: "a"}], 2)

	keys := sortedTableKeys(tables)
	assert.Equal(t, []tableKey{
		{Schema: "s1", Table: "a"},
		{Schema: "s1", Table: "z"},
		{Schema: "s2", Table: "b"},
	}, keys)
}
