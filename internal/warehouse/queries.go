package warehouse

import "sparkify/internal/schema"

// Query is one set-based statement of the transform step.
type Query struct {
	Table string
	SQL   string
}

const truncateStaging = `TRUNCATE TABLE staging_events, staging_songs;`

// Users take their attributes from the latest NextSong event; on equal ts
// the event staged first wins.
const userInsert = `INSERT INTO users (user_id, first_name, last_name, gender, level)
SELECT user_id, first_name, last_name, gender, level
FROM (
    SELECT user_id, first_name, last_name, gender, level,
           ROW_NUMBER() OVER (PARTITION BY user_id ORDER BY ts DESC, event_seq) AS rn
    FROM staging_events
    WHERE page = 'NextSong' AND user_id IS NOT NULL
) e
WHERE rn = 1;`

const songInsert = `INSERT INTO songs (song_id, title, artist_id, year, duration)
SELECT song_id, title, artist_id, year, duration
FROM (
    SELECT song_id, title, artist_id, year, duration,
           ROW_NUMBER() OVER (PARTITION BY song_id ORDER BY song_seq) AS rn
    FROM staging_songs
    WHERE song_id IS NOT NULL
) s
WHERE rn = 1;`

const artistInsert = `INSERT INTO artists (artist_id, name, location, latitude, longitude)
SELECT artist_id, artist_name, artist_location, artist_latitude, artist_longitude
FROM (
    SELECT artist_id, artist_name, artist_location, artist_latitude, artist_longitude,
           ROW_NUMBER() OVER (PARTITION BY artist_id ORDER BY song_seq) AS rn
    FROM staging_songs
    WHERE artist_id IS NOT NULL
) a
WHERE rn = 1;`

const timeInsert = `INSERT INTO "time" (start_time, hour, day, week, month, year, weekday)
SELECT start_time,
       EXTRACT(hour FROM start_time),
       EXTRACT(day FROM start_time),
       EXTRACT(week FROM start_time),
       EXTRACT(month FROM start_time),
       EXTRACT(year FROM start_time),
       EXTRACT(isodow FROM start_time)
FROM (
    SELECT DISTINCT (TIMESTAMP 'epoch' + ts * INTERVAL '1 millisecond') AS start_time
    FROM staging_events
    WHERE page = 'NextSong' AND user_id IS NOT NULL
) t;`

// Songplays read only the staging tables. A play resolves when exactly one
// distinct song matches its (title, artist name, duration); otherwise both
// keys stay NULL.
const songplayInsert = `WITH first_songs AS (
    SELECT song_id, title, artist_id, duration
    FROM (
        SELECT song_id, title, artist_id, duration,
               ROW_NUMBER() OVER (PARTITION BY song_id ORDER BY song_seq) AS rn
        FROM staging_songs
        WHERE song_id IS NOT NULL
    ) s
    WHERE rn = 1
), first_artists AS (
    SELECT artist_id, artist_name
    FROM (
        SELECT artist_id, artist_name,
               ROW_NUMBER() OVER (PARTITION BY artist_id ORDER BY song_seq) AS rn
        FROM staging_songs
        WHERE artist_id IS NOT NULL
    ) a
    WHERE rn = 1
), catalog AS (
    SELECT s.title, a.artist_name, s.duration,
           MIN(s.song_id) AS song_id, MIN(s.artist_id) AS artist_id
    FROM first_songs s
    JOIN first_artists a ON s.artist_id = a.artist_id
    GROUP BY s.title, a.artist_name, s.duration
    HAVING COUNT(DISTINCT s.song_id) = 1
)
INSERT INTO songplays (start_time, user_id, level, song_id, artist_id, session_id, location, user_agent)
SELECT (TIMESTAMP 'epoch' + e.ts * INTERVAL '1 millisecond'),
       e.user_id, e.level, c.song_id, c.artist_id, e.session_id, e.location, e.user_agent
FROM staging_events e
LEFT JOIN catalog c
       ON e.song = c.title AND e.artist = c.artist_name AND e.length = c.duration
WHERE e.page = 'NextSong' AND e.user_id IS NOT NULL
ORDER BY e.event_seq;`

// Queries returns the transform statements in execution order.
func Queries() []Query {
	return []Query{
		{Table: schema.Users, SQL: userInsert},
		{Table: schema.Songs, SQL: songInsert},
		{Table: schema.Artists, SQL: artistInsert},
		{Table: schema.Time, SQL: timeInsert},
		{Table: schema.Songplays, SQL: songplayInsert},
	}
}
