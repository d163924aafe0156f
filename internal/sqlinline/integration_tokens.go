package sqlinline

const QSelectIntegrationToken = `--sql 1629c579-b55b-4cb8-ac60-1063c65cf7c9
select token
from integration_tokens
where provider = $1;
`

const QUpsertIntegrationToken = `--sql 5f3fa1f6-142f-46b3-8f78-bcf3933e6fd6
insert into integration_tokens (provider, token, properties, updated_at)
values ($1, $2, $3, now())
on conflict (provider) do update
set token = excluded.token,
    properties = excluded.properties,
    updated_at = now();
`
