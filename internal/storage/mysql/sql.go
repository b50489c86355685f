package mysql

// -----------------------------------------------------------------------------
// RATER
// -----------------------------------------------------------------------------

const insertRaterSQL = `
INSERT INTO rater (user_id, email, name, join_date, type, reputation)
VALUES (?, ?, ?, ?, ?, ?)
`

// Omits type so the column default ('online') applies.
const insertRaterDefaultTypeSQL = `
INSERT INTO rater (user_id, email, name, join_date, reputation)
VALUES (?, ?, ?, ?, ?)
`

const getRaterSQL = `
SELECT user_id, email, name, join_date, type, reputation
FROM rater
WHERE user_id = ?
`

const deleteRaterSQL = `DELETE FROM rater WHERE user_id = ?`

// -----------------------------------------------------------------------------
// RESTAURANT
// -----------------------------------------------------------------------------

const insertRestaurantSQL = `
INSERT INTO restaurant (name, type, url, pic_url, overall_rating)
VALUES (?, ?, ?, ?, ?)
`

const selectRestaurantSQL = `
SELECT restaurant_id, name, type, url, pic_url, overall_rating
FROM restaurant
`

const getRestaurantSQL = selectRestaurantSQL + `WHERE restaurant_id = ?`

const listRestaurantsSQL = selectRestaurantSQL + `ORDER BY restaurant_id LIMIT ? OFFSET ?`

const deleteRestaurantSQL = `DELETE FROM restaurant WHERE restaurant_id = ?`

// -----------------------------------------------------------------------------
// RATING
// -----------------------------------------------------------------------------

const insertRatingSQL = `
INSERT INTO rating (user_id, post_date, restaurant_id, price, food, mood, staff, comment)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

const selectRatingSQL = `
SELECT user_id, post_date, restaurant_id, price, food, mood, staff, comment
FROM rating
`

const listRatingsByRestaurantSQL = selectRatingSQL + `
WHERE restaurant_id = ?
ORDER BY post_date DESC, user_id
LIMIT ? OFFSET ?`

const listRatingsByRaterSQL = selectRatingSQL + `
WHERE user_id = ?
ORDER BY post_date DESC, restaurant_id
LIMIT ? OFFSET ?`

// -----------------------------------------------------------------------------
// MENU ITEM
// -----------------------------------------------------------------------------

const insertMenuItemSQL = `
INSERT INTO menu_item (restaurant_id, name, type, category, description, price)
VALUES (?, ?, ?, ?, ?, ?)
`

const selectMenuItemSQL = `
SELECT item_id, restaurant_id, name, type, category, description, price
FROM menu_item
`

const getMenuItemSQL = selectMenuItemSQL + `WHERE item_id = ?`

const listMenuItemsSQL = selectMenuItemSQL + `
WHERE restaurant_id = ?
ORDER BY item_id
LIMIT ? OFFSET ?`

const deleteMenuItemSQL = `DELETE FROM menu_item WHERE item_id = ?`

// -----------------------------------------------------------------------------
// RATING ITEM
// -----------------------------------------------------------------------------

const insertRatingItemSQL = `
INSERT INTO rating_item (user_id, item_id, post_date, rating, comment)
VALUES (?, ?, ?, ?, ?)
`

const listRatingItemsSQL = `
SELECT user_id, item_id, post_date, rating, comment
FROM rating_item
WHERE item_id = ?
ORDER BY post_date DESC, user_id
LIMIT ? OFFSET ?`

// -----------------------------------------------------------------------------
// LOCATION
// -----------------------------------------------------------------------------

// Note: open and close are keywords; keep them quoted.
const insertLocationSQL = "INSERT INTO location\n" +
	"  (manager_name, phone_number, street_address, `open`, `close`, restaurant_id)\n" +
	"VALUES (?, ?, ?, ?, ?, ?)"

const listLocationsSQL = "SELECT location_id, manager_name, phone_number, street_address, `open`, `close`, restaurant_id\n" +
	"FROM location\n" +
	"WHERE restaurant_id = ?\n" +
	"ORDER BY location_id\n" +
	"LIMIT ? OFFSET ?"

// -----------------------------------------------------------------------------
// MIGRATIONS
// -----------------------------------------------------------------------------

const createMigrationsTableSQL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version    VARCHAR(255) NOT NULL PRIMARY KEY,
  applied_at TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

const migrationAppliedSQL = `SELECT COUNT(*) FROM schema_migrations WHERE version = ?`

const recordMigrationSQL = `INSERT INTO schema_migrations (version) VALUES (?)`
