package sqlinline

const QInsertGeneration = `--sql 6e727f40-e744-48f1-abf1-352d5f428872
insert into generations (id, prompt, locale, status, video_url, error_message)
values ($1, $2, $3, $4, nullif($5, ''), nullif($6, ''));
`

const QSelectGeneration = `--sql 1cd00c5d-16a0-4384-84b1-9be3b9f1b71c
select id, prompt, locale, status, coalesce(video_url, ''), coalesce(error_message, ''), created_at
from generations
where id = $1;
`

const QListGenerations = `--sql 19a6411e-98db-466e-9aa0-e6c059f867d5
select id, prompt, locale, status, coalesce(video_url, ''), coalesce(error_message, ''), created_at
from generations
order by created_at desc
limit $1;
`
